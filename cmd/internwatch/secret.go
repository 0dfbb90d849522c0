package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"internwatch/internal/config"
	"internwatch/internal/secrets"
)

const secretUsage = "usage: internwatch secret set|delete telegram|imap  (value is read from stdin)"

// runSecret stores or removes a credential in the OS keychain under the
// account the running bot will look up for cfg.
func runSecret(args []string, cfg config.Config, stdin io.Reader, stdout io.Writer) error {
	if len(args) != 2 {
		return fmt.Errorf("%s", secretUsage)
	}
	action, kind := args[0], args[1]

	var account string
	switch kind {
	case "telegram":
		if strings.TrimSpace(cfg.Notify.Telegram.ChatID) == "" {
			return fmt.Errorf("notify.telegram.chat_id (or TELEGRAM_CHAT_ID) must be set first")
		}
		account = secrets.TelegramAccount(cfg.Notify.Telegram.ChatID)
	case "imap":
		am := cfg.Sources.AlertMail
		if strings.TrimSpace(am.Username) == "" || strings.TrimSpace(am.IMAPHost) == "" {
			return fmt.Errorf("sources.alertmail.username and imap_host must be set first")
		}
		account = secrets.IMAPAccount(am.Username, am.IMAPHost)
	default:
		return fmt.Errorf("%s", secretUsage)
	}

	switch action {
	case "set":
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("read secret: %w", err)
		}
		if err := secrets.Set(account, strings.TrimSpace(line)); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "stored %s secret as %q\n", kind, account)
	case "delete":
		if err := secrets.Delete(account); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "deleted %q\n", account)
	default:
		return fmt.Errorf("%s", secretUsage)
	}
	return nil
}
