package alertmail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log"
	"net/mail"
	"strings"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
)

// Message is the part of a mail the adapter needs.
type Message struct {
	UID     imap.UID
	From    string
	Subject string
	Date    time.Time

	// Raw is the full RFC822 message. It is fetched with BODY.PEEK[] so
	// reading it does not set \Seen.
	Raw []byte
}

// Mailbox is an open, selected mailbox.
type Mailbox interface {
	Unseen(ctx context.Context, since time.Time, max int) ([]Message, error)
	MarkSeen(uids []imap.UID) error
	Close()
}

// Dialer opens a Mailbox.
type Dialer func(ctx context.Context) (Mailbox, error)

type imapMailbox struct {
	c      *imapclient.Client
	logger *log.Logger
}

// IMAPDialer logs in over TLS and selects mailbox read-write.
func IMAPDialer(addr, username, password, mailbox string, logger *log.Logger) Dialer {
	return func(ctx context.Context) (Mailbox, error) {
		host := addr
		if i := strings.LastIndex(addr, ":"); i > 0 {
			host = addr[:i]
		}
		c, err := dialAndLogin(ctx, addr, username, password, &tls.Config{
			MinVersion: tls.VersionTLS12,
			ServerName: host,
		})
		if err != nil {
			return nil, err
		}
		if _, err := c.Select(mailbox, &imap.SelectOptions{ReadOnly: false}).Wait(); err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("imap select %s: %w", mailbox, err)
		}
		return &imapMailbox{c: c, logger: logger}, nil
	}
}

func dialAndLogin(ctx context.Context, addr, username, password string, tlsCfg *tls.Config) (*imapclient.Client, error) {
	if addr == "" {
		return nil, errors.New("imap addr is required")
	}
	if username == "" || password == "" {
		return nil, errors.New("imap username/password is required")
	}

	c, err := imapclient.DialTLS(addr, &imapclient.Options{TLSConfig: tlsCfg})
	if err != nil {
		return nil, fmt.Errorf("imap dial tls: %w", err)
	}

	// Unblock pending commands when the caller gives up.
	stop := context.AfterFunc(ctx, func() { _ = c.Close() })
	if err := c.Login(username, password).Wait(); err != nil {
		stop()
		_ = c.Close()
		return nil, fmt.Errorf("imap login: %w", err)
	}
	return c, nil
}

// Unseen returns up to max unseen messages received after since, newest first.
func (m *imapMailbox) Unseen(ctx context.Context, since time.Time, max int) ([]Message, error) {
	if max <= 0 {
		max = 50
	}

	criteria := &imap.SearchCriteria{
		NotFlag: []imap.Flag{imap.FlagSeen},
		Since:   since,
	}
	searchData, err := m.c.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("imap uid search unseen: %w", err)
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}
	for i, j := 0, len(uids)-1; i < j; i, j = i+1, j-1 {
		uids[i], uids[j] = uids[j], uids[i]
	}
	if len(uids) > max {
		uids = uids[:max]
	}

	bodyAll := &imap.FetchItemBodySection{Specifier: imap.PartSpecifierNone, Peek: true}
	fetchCmd := m.c.Fetch(imap.UIDSetNum(uids...), &imap.FetchOptions{
		UID:         true,
		Envelope:    true,
		BodySection: []*imap.FetchItemBodySection{bodyAll},
	})
	defer func() { _ = fetchCmd.Close() }()

	out := make([]Message, 0, len(uids))
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		msgData := fetchCmd.Next()
		if msgData == nil {
			break
		}
		buf, err := msgData.Collect()
		if err != nil {
			return nil, fmt.Errorf("imap fetch collect: %w", err)
		}

		msg := Message{UID: buf.UID}
		if buf.Envelope != nil {
			msg.Subject = buf.Envelope.Subject
			msg.Date = buf.Envelope.Date
			msg.From = joinAddrs(buf.Envelope.From)
		}
		if b := buf.FindBodySection(bodyAll); b != nil {
			msg.Raw = append([]byte(nil), b...)
		}
		if (msg.Subject == "" || msg.From == "") && len(msg.Raw) > 0 {
			subj, from := parseHeadersFallback(msg.Raw)
			if msg.Subject == "" {
				msg.Subject = subj
			}
			if msg.From == "" {
				msg.From = from
			}
		}
		out = append(out, msg)
	}

	if err := fetchCmd.Close(); err != nil {
		return nil, fmt.Errorf("imap fetch close: %w", err)
	}
	return out, nil
}

func (m *imapMailbox) MarkSeen(uids []imap.UID) error {
	if len(uids) == 0 {
		return nil
	}
	cmd := m.c.Store(imap.UIDSetNum(uids...), &imap.StoreFlags{
		Op:     imap.StoreFlagsAdd,
		Silent: true,
		Flags:  []imap.Flag{imap.FlagSeen},
	}, nil)
	if err := cmd.Close(); err != nil {
		return fmt.Errorf("imap store add seen: %w", err)
	}
	return nil
}

func (m *imapMailbox) Close() {
	if err := m.c.Logout().Wait(); err != nil && m.logger != nil {
		m.logger.Printf("[alertmail] imap logout: %v", err)
	}
	_ = m.c.Close()
}

func joinAddrs(addrs []imap.Address) string {
	parts := make([]string, 0, len(addrs))
	for i := range addrs {
		a := &addrs[i]
		addr := strings.TrimSpace(a.Addr())
		if addr == "" {
			addr = strings.TrimSpace(a.Name)
		}
		if addr != "" {
			parts = append(parts, addr)
		}
	}
	return strings.Join(parts, ", ")
}

func parseHeadersFallback(raw []byte) (subject, from string) {
	msg, err := mail.ReadMessage(strings.NewReader(string(raw)))
	if err != nil {
		return "", ""
	}
	_, _ = io.Copy(io.Discard, msg.Body)
	return decodeRFC2047(msg.Header.Get("Subject")), msg.Header.Get("From")
}
