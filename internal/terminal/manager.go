// Package terminal manages interactive shell sessions into the TAK server
// container. A session runs `docker exec -it` under a pty and fans its
// output out to any number of attached writers (websocket connections).
package terminal

import (
	"fmt"
	"os"
	"os/exec"
	"sync"

	"github.com/creack/pty"
)

// WriterFunc receives a chunk of terminal output.
type WriterFunc func(data string)

// Manager tracks live sessions by name.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Get returns the named session or nil.
func (m *Manager) Get(name string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[name]
}

// GetOrCreate returns the named session, starting a new shell into the
// container when none is live. A session whose process already exited is
// replaced.
func (m *Manager) GetOrCreate(name, containerName string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[name]; ok && !s.Closed() {
		return s, nil
	}

	s, err := startSession(name, containerName)
	if err != nil {
		return nil, err
	}
	m.sessions[name] = s

	// Reap the session entry when the shell exits.
	go func() {
		s.wait()
		m.mu.Lock()
		if m.sessions[name] == s {
			delete(m.sessions, name)
		}
		m.mu.Unlock()
	}()

	return s, nil
}

// Remove closes and forgets the named session.
func (m *Manager) Remove(name string) {
	m.mu.Lock()
	s := m.sessions[name]
	delete(m.sessions, name)
	m.mu.Unlock()
	if s != nil {
		s.Close()
	}
}

// RemoveWriterFromAll detaches a writer from every session. Called when a
// websocket connection goes away.
func (m *Manager) RemoveWriterFromAll(writerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		s.RemoveWriter(writerID)
	}
}

// Session is one pty-backed shell.
type Session struct {
	Name string

	cmd *exec.Cmd
	pty *os.File

	mu      sync.Mutex
	writers map[string]WriterFunc
	closed  bool
	done    chan struct{}
}

// startSession spawns `docker exec -it <container> /bin/bash` under a pty
// and begins fanning output out to writers.
func startSession(name, containerName string) (*Session, error) {
	cmd := exec.Command("docker", "exec", "-it", containerName, "/bin/bash")
	f, err := pty.Start(cmd)
	if err != nil {
		return nil, fmt.Errorf("start terminal: %w", err)
	}

	s := &Session{
		Name:    name,
		cmd:     cmd,
		pty:     f,
		writers: make(map[string]WriterFunc),
		done:    make(chan struct{}),
	}
	go s.readLoop()
	return s, nil
}

func (s *Session) readLoop() {
	buf := make([]byte, 4096)
	for {
		n, err := s.pty.Read(buf)
		if n > 0 {
			data := string(buf[:n])
			s.mu.Lock()
			for _, w := range s.writers {
				w(data)
			}
			s.mu.Unlock()
		}
		if err != nil {
			break
		}
	}
	s.Close()
}

func (s *Session) wait() {
	<-s.done
	_ = s.cmd.Wait()
}

// AddWriter attaches an output sink under the given ID, replacing any
// previous writer with that ID.
func (s *Session) AddWriter(id string, w WriterFunc) {
	s.mu.Lock()
	s.writers[id] = w
	s.mu.Unlock()
}

// RemoveWriter detaches the output sink with the given ID.
func (s *Session) RemoveWriter(id string) {
	s.mu.Lock()
	delete(s.writers, id)
	s.mu.Unlock()
}

// WriterCount returns the number of attached writers.
func (s *Session) WriterCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.writers)
}

// WriteInput sends keystrokes to the shell.
func (s *Session) WriteInput(data []byte) error {
	_, err := s.pty.Write(data)
	return err
}

// Resize updates the pty window size.
func (s *Session) Resize(cols, rows uint16) error {
	return pty.Setsize(s.pty, &pty.Winsize{Cols: cols, Rows: rows})
}

// Closed reports whether the session has ended.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close terminates the shell and releases the pty. Safe to call more than
// once.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	_ = s.pty.Close()
	close(s.done)
}
