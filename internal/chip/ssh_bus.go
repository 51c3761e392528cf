package chip

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"
)

// SSHConfig describes the connection to a network-attached receiver whose
// sub-device attributes are exposed as sysfs files.
type SSHConfig struct {
	Host      string
	User      string
	Password  string
	KeyPath   string
	Port      int
	SysfsRoot string
}

// SSHBus is a RegisterBus that reads and writes sysfs attribute files over
// an SSH session. It exists for embedded deployments where the receiver
// hangs off a small ARM host rather than the local USB bus. The connection
// is dialed lazily on first use.
type SSHBus struct {
	mu     sync.Mutex
	cfg    SSHConfig
	client *ssh.Client
}

// NewSSHBus validates configuration and prepares a bus instance.
func NewSSHBus(cfg SSHConfig) (*SSHBus, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("sshbus: host is required")
	}
	if cfg.User == "" {
		cfg.User = "root"
	}
	if cfg.Port == 0 {
		cfg.Port = 22
	}
	if cfg.SysfsRoot == "" {
		cfg.SysfsRoot = "/sys/bus/rasdr/devices"
	}
	return &SSHBus{cfg: cfg}, nil
}

func (b *SSHBus) WriteAttr(device, attr, value string) error {
	client, err := b.dial()
	if err != nil {
		return err
	}

	session, err := client.NewSession()
	if err != nil {
		return fmt.Errorf("sshbus: create session: %w", err)
	}
	defer session.Close()

	// printf avoids shell interpretation of the value contents.
	cmd := fmt.Sprintf("printf %s > %s", shellQuote(value), b.attrPath(device, attr))
	if err := session.Run(cmd); err != nil {
		return fmt.Errorf("sshbus: write %s/%s: %w", device, attr, err)
	}
	return nil
}

func (b *SSHBus) ReadAttr(device, attr string) (string, error) {
	client, err := b.dial()
	if err != nil {
		return "", err
	}

	session, err := client.NewSession()
	if err != nil {
		return "", fmt.Errorf("sshbus: create session: %w", err)
	}
	defer session.Close()

	out, err := session.Output("cat " + b.attrPath(device, attr))
	if err != nil {
		return "", fmt.Errorf("sshbus: read %s/%s: %w", device, attr, err)
	}
	return strings.TrimSpace(string(out)), nil
}

func (b *SSHBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.client == nil {
		return nil
	}
	err := b.client.Close()
	b.client = nil
	return err
}

func (b *SSHBus) dial() (*ssh.Client, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.client != nil {
		return b.client, nil
	}

	auth := []ssh.AuthMethod{}
	if b.cfg.Password != "" {
		auth = append(auth, ssh.Password(b.cfg.Password))
	}
	if b.cfg.KeyPath != "" {
		key, err := os.ReadFile(b.cfg.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("sshbus: read key: %w", err)
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			return nil, fmt.Errorf("sshbus: parse key: %w", err)
		}
		auth = append(auth, ssh.PublicKeys(signer))
	}
	if len(auth) == 0 {
		return nil, fmt.Errorf("sshbus: no password or key configured")
	}

	config := &ssh.ClientConfig{
		User:            b.cfg.User,
		Auth:            auth,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         5 * time.Second,
	}

	addr := fmt.Sprintf("%s:%d", b.cfg.Host, b.cfg.Port)
	client, err := ssh.Dial("tcp", addr, config)
	if err != nil {
		return nil, fmt.Errorf("sshbus: dial %s: %w", addr, err)
	}
	b.client = client
	return b.client, nil
}

func (b *SSHBus) attrPath(device, attr string) string {
	return filepath.Join(b.cfg.SysfsRoot, device, attr)
}

// shellQuote wraps a value in single quotes with embedded quotes escaped for
// safe shell usage.
func shellQuote(value string) string {
	escaped := strings.ReplaceAll(value, "'", "'\\''")
	return fmt.Sprintf("'%s'", escaped)
}
