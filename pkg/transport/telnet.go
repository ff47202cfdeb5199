package transport

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/lumatek/netwalk/pkg/model"
)

// telnetSession is a best-effort plaintext telnet fallback. There is no
// telnet client anywhere in the example pack to ground this on, so it is
// built directly on net.Conn: it does not negotiate Telnet IAC options, it
// only handles the username/password prompt dance and then scrapes command
// output up to the next shell prompt. This matches the fallback's role in
// the spec (§4.3: "retry once with plaintext telnet"), not a general-purpose
// telnet client.
type telnetSession struct {
	conn   net.Conn
	reader *bufio.Reader
	prompt string
}

func (m *Manager) openTelnet(ip string, creds model.Credentials) (Session, error) {
	address := net.JoinHostPort(ip, strconv.Itoa(telnetPort))

	conn, err := net.DialTimeout("tcp", address, m.ConnectTimeout)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectRefused, err)
	}

	sess := &telnetSession{conn: conn, reader: bufio.NewReader(conn)}

	if err := sess.login(creds, m.ConnectTimeout); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return sess, nil
}

func (t *telnetSession) login(creds model.Credentials, timeout time.Duration) error {
	_ = t.conn.SetDeadline(time.Now().Add(timeout))

	if _, err := t.readUntilAny("sername:", "ogin:"); err != nil {
		return fmt.Errorf("%w: no username prompt: %v", ErrAuthFailed, err)
	}

	if _, err := fmt.Fprintf(t.conn, "%s\r\n", creds.Username); err != nil {
		return fmt.Errorf("%w: %v", ErrConnectRefused, err)
	}

	if _, err := t.readUntilAny("assword:"); err != nil {
		return fmt.Errorf("%w: no password prompt: %v", ErrAuthFailed, err)
	}

	if _, err := fmt.Fprintf(t.conn, "%s\r\n", creds.Password); err != nil {
		return fmt.Errorf("%w: %v", ErrConnectRefused, err)
	}

	out, err := t.readUntilAny("#", ">", "denied", "failed")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}

	if strings.Contains(strings.ToLower(out), "denied") || strings.Contains(strings.ToLower(out), "failed") {
		return ErrAuthFailed
	}

	t.prompt = lastNonEmptyLine(out)

	return nil
}

func (t *telnetSession) readUntilAny(markers ...string) (string, error) {
	var sb strings.Builder

	buf := make([]byte, 1)

	for {
		n, err := t.reader.Read(buf)
		if n > 0 {
			sb.WriteByte(buf[0])

			s := sb.String()
			for _, marker := range markers {
				if strings.Contains(s, marker) {
					return s, nil
				}
			}
		}

		if err != nil {
			return sb.String(), err
		}
	}
}

func (t *telnetSession) Run(ctx context.Context, cmd string, timeout time.Duration) (string, error) {
	_ = t.conn.SetDeadline(time.Now().Add(timeout))

	if _, err := fmt.Fprintf(t.conn, "%s\r\n", cmd); err != nil {
		return "", fmt.Errorf("transport: telnet write: %w", err)
	}

	type result struct {
		out string
		err error
	}

	done := make(chan result, 1)

	go func() {
		out, err := t.readUntilAny(t.prompt)
		done <- result{out: out, err: err}
	}()

	select {
	case r := <-done:
		return r.out, r.err
	case <-time.After(timeout):
		return "", ErrCommandTimeout
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (t *telnetSession) Close() error {
	return t.conn.Close()
}

func (*telnetSession) Transport() model.TransportKind {
	return model.TransportTelnet
}

func lastNonEmptyLine(s string) string {
	lines := strings.Split(strings.ReplaceAll(s, "\r", ""), "\n")

	for i := len(lines) - 1; i >= 0; i-- {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed != "" {
			return trimmed
		}
	}

	return ""
}
