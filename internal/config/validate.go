package config

import (
	"fmt"
	"strings"
	"time"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

func (v Validation) Error() string {
	return "config validation failed:\n- " + strings.Join(v.Errors, "\n- ")
}

// NormalizeAndValidate returns a normalized copy plus everything wrong with it.
// Missing credentials, no enabled source, no enabled notifier and an empty
// interest list are errors: the process must not start with them.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Interests = trimList(out.Interests)
	out.Sources.AlertMail.SubjectAny = trimList(out.Sources.AlertMail.SubjectAny)
	out.Seen.Backend = strings.ToLower(strings.TrimSpace(out.Seen.Backend))
	if out.Seen.Backend == "" {
		out.Seen.Backend = "file"
	}
	if strings.TrimSpace(out.App.DataDir) == "" {
		out.App.DataDir = "."
	}

	// ---- interests ----
	if len(out.Interests) == 0 {
		res.addErr("interests is empty; an empty interest list matches no postings")
	}

	// ---- polling ----
	if out.Polling.Interval <= 0 {
		res.addErr("polling.interval must be > 0")
	} else if out.Polling.Interval < time.Minute {
		res.addWarn("polling.interval is very low (%s) and may get the bot rate limited.", out.Polling.Interval)
	}
	if out.Polling.SourceDelay < 0 || out.Polling.NotifyDelay < 0 {
		res.addErr("polling delays must be >= 0")
	}
	if out.Polling.RequestTimeout <= 0 {
		out.Polling.RequestTimeout = 30 * time.Second
	}
	if out.Polling.RequestsPerSec <= 0 {
		out.Polling.RequestsPerSec = 1
	}

	// ---- seen state ----
	if out.Seen.Capacity <= 0 {
		res.addErr("seen.capacity must be > 0")
	} else if out.Seen.Capacity < 100 {
		res.addWarn("seen.capacity is %d; listings may be re-notified once evicted.", out.Seen.Capacity)
	}
	switch out.Seen.Backend {
	case "file":
		if strings.TrimSpace(out.Seen.File) == "" {
			res.addErr("seen.file is required when seen.backend=file")
		}
	case "sqlite":
		if strings.TrimSpace(out.Seen.SQLitePath) == "" {
			res.addErr("seen.sqlite_path is required when seen.backend=sqlite")
		}
	case "redis":
		if strings.TrimSpace(out.Seen.RedisAddr) == "" {
			res.addErr("seen.redis_addr is required when seen.backend=redis")
		}
		if strings.TrimSpace(out.Seen.RedisKey) == "" {
			out.Seen.RedisKey = "internwatch:seen"
		}
	default:
		res.addErr("seen.backend %q is not one of file, sqlite, redis", out.Seen.Backend)
	}

	// ---- sources ----
	src := &out.Sources
	if !src.AICTE.Enabled && !src.Internshala.Enabled && !src.Lever.Enabled &&
		!src.Greenhouse.Enabled && !src.AlertMail.Enabled {
		res.addErr("no sources enabled: enable at least one of aicte, internshala, lever, greenhouse, alertmail")
	}
	if src.Internshala.Enabled && src.Internshala.MaxTerms <= 0 {
		src.Internshala.MaxTerms = 3
	}
	if src.Lever.Enabled && len(src.Lever.Companies) == 0 {
		res.addWarn("sources.lever is enabled with no companies; it will find nothing.")
	}
	if src.Greenhouse.Enabled && len(src.Greenhouse.Companies) == 0 {
		res.addWarn("sources.greenhouse is enabled with no companies; it will find nothing.")
	}
	if src.AlertMail.Enabled {
		if strings.TrimSpace(src.AlertMail.IMAPHost) == "" {
			res.addErr("sources.alertmail.imap_host is required when alertmail is enabled")
		}
		if strings.TrimSpace(src.AlertMail.Username) == "" {
			res.addErr("sources.alertmail.username is required when alertmail is enabled")
		}
		if strings.TrimSpace(src.AlertMail.AppPassword) == "" {
			res.addErr("sources.alertmail password missing (keychain, IMAP_APP_PASSWORD or app_password)")
		}
		if src.AlertMail.IMAPPort == 0 {
			src.AlertMail.IMAPPort = 993
		}
		if strings.TrimSpace(src.AlertMail.Mailbox) == "" {
			src.AlertMail.Mailbox = "INBOX"
		}
		if len(src.AlertMail.SubjectAny) == 0 {
			res.addWarn("sources.alertmail.subject_any is empty; every unseen mail will be scanned.")
		}
	}

	// ---- notifiers ----
	n := &out.Notify
	if !n.Telegram.Enabled && !n.Kafka.Enabled && !n.Log.Enabled {
		res.addErr("no notifier enabled: enable notify.telegram, notify.kafka or notify.log")
	}
	if n.Telegram.Enabled {
		if strings.TrimSpace(n.Telegram.BotToken) == "" {
			res.addErr("TELEGRAM_BOT_TOKEN is required when notify.telegram is enabled")
		}
		if strings.TrimSpace(n.Telegram.ChatID) == "" {
			res.addErr("TELEGRAM_CHAT_ID is required when notify.telegram is enabled")
		}
	}
	if n.Kafka.Enabled {
		if strings.TrimSpace(n.Kafka.Broker) == "" || strings.TrimSpace(n.Kafka.Topic) == "" {
			res.addErr("notify.kafka.broker and notify.kafka.topic are required when kafka is enabled")
		}
	}
	if _, err := time.LoadLocation(n.Timezone); n.Timezone != "" && err != nil {
		res.addWarn("notify.timezone %q unknown; falling back to IST.", n.Timezone)
	}

	if out.App.Port < 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 0..65535")
	}

	return out, res
}
