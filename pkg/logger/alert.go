package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const sendAlertKey = "send_alert"

// OpsAlertConfig carries the Telegram destination for flagged error logs.
type OpsAlertConfig struct {
	BotToken string
	ChatID   string
}

// AlertCore forwards flagged error entries to an ops Telegram chat while
// delegating everything else to the wrapped core.
type AlertCore struct {
	cfg      OpsAlertConfig
	core     zapcore.Core
	minLevel zapcore.Level
}

// WithOpsAlert wraps the logger core so entries logged via
// ErrorContextWithAlert are also pushed to the ops chat.
func (l *Logger) WithOpsAlert(cfg OpsAlertConfig) *Logger {
	if cfg.BotToken == "" || cfg.ChatID == "" {
		return l
	}
	wrapped := l.Logger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return &AlertCore{cfg: cfg, core: core, minLevel: zapcore.ErrorLevel}
	}))
	return &Logger{wrapped}
}

func (a *AlertCore) Enabled(lvl zapcore.Level) bool {
	return a.core.Enabled(lvl)
}

func (a *AlertCore) With(fields []zapcore.Field) zapcore.Core {
	return &AlertCore{
		cfg:      a.cfg,
		core:     a.core.With(fields),
		minLevel: a.minLevel,
	}
}

func (a *AlertCore) Check(entry zapcore.Entry, checkedEntry *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if a.Enabled(entry.Level) {
		return a.core.Check(entry, checkedEntry).AddCore(entry, a)
	}
	return checkedEntry
}

func (a *AlertCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	shouldSend := false
	for _, f := range fields {
		if f.Key == sendAlertKey && f.Type == zapcore.BoolType && f.Integer == 1 {
			shouldSend = true
			break
		}
	}
	if entry.Level >= a.minLevel && shouldSend {
		go a.sendTelegramAlert(entry, fields) // async so logging never blocks
	}
	return a.core.Write(entry, fields)
}

func (a *AlertCore) Sync() error {
	return a.core.Sync()
}

func (a *AlertCore) sendTelegramAlert(entry zapcore.Entry, fields []zapcore.Field) {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		f.AddTo(enc)
	}

	fieldStr := ""
	for k, v := range enc.Fields {
		if k == sendAlertKey {
			continue
		}
		fieldStr += fmt.Sprintf("• %s: %v\n", k, v)
	}

	message := fmt.Sprintf(
		"🚨 *%s Alert*\n\n*Message:* %s\n\n*Fields:*\n%s\n*Time:* %s",
		entry.Level.CapitalString(),
		entry.Message,
		fieldStr,
		entry.Time.Format("2006-01-02 15:04:05"),
	)

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", a.cfg.BotToken)
	payload := map[string]interface{}{
		"chat_id":    a.cfg.ChatID,
		"text":       message,
		"parse_mode": "Markdown",
	}

	jsonBody, _ := json.Marshal(payload)
	http.Post(url, "application/json", bytes.NewBuffer(jsonBody))
}
