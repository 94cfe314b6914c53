package shutdown

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Manager управляет завершением утилиты.
// Перехватывает SIGINT/SIGTERM и превращает их в отмену контекста,
// а при выходе последовательно выполняет зарегистрированные shutdown функции.
type Manager struct {
	timeout time.Duration
	logger  *zap.Logger
	funcs   []shutdownFunc
	mu      sync.Mutex
}

type shutdownFunc struct {
	name string
	fn   func(context.Context) error
}

// New создаёт новый Manager с указанным таймаутом (на каждую функцию) и logger
func New(timeout time.Duration, logger *zap.Logger) *Manager {
	return &Manager{
		timeout: timeout,
		logger:  logger,
		funcs:   make([]shutdownFunc, 0),
	}
}

// Add регистрирует shutdown функцию с указанным именем
// Функции выполняются в обратном порядке регистрации
func (m *Manager) Add(name string, fn func(context.Context) error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.funcs = append(m.funcs, shutdownFunc{name: name, fn: fn})
}

// NotifyContext возвращает контекст, который отменяется при получении SIGINT или SIGTERM.
// stop нужно вызвать, когда сигналы больше не нужны (снимает подписку и отменяет контекст).
func (m *Manager) NotifyContext(parent context.Context) (ctx context.Context, stop func()) {
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			m.logger.Warn("Received shutdown signal, stopping after current session is released",
				zap.String("signal", sig.String()))
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}

// Shutdown последовательно (в обратном порядке) выполняет все зарегистрированные функции.
// Каждая функция выполняется с context.WithTimeout; ошибки не прерывают остальные функции.
func (m *Manager) Shutdown() error {
	m.mu.Lock()
	funcs := make([]shutdownFunc, len(m.funcs))
	copy(funcs, m.funcs)
	m.funcs = m.funcs[:0]
	m.mu.Unlock()

	var errs []error
	for i := len(funcs) - 1; i >= 0; i-- {
		fn := funcs[i]

		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		start := time.Now()
		err := fn.fn(ctx)
		cancel()

		duration := time.Since(start)
		if err != nil {
			m.logger.Error("Shutdown function failed",
				zap.String("name", fn.name),
				zap.Error(err),
				zap.Duration("duration", duration))
			errs = append(errs, fmt.Errorf("%s: %w", fn.name, err))
			continue
		}
		m.logger.Debug("Shutdown function completed",
			zap.String("name", fn.name),
			zap.Duration("duration", duration))
	}

	return errors.Join(errs...)
}
