package perfectmoney

import (
	"bytes"
	"context"
	"sync"

	"github.com/mstgnz/perfectmoney/infra/logger"
	"github.com/mstgnz/perfectmoney/provider"
)

func testConf(apiURL string) map[string]string {
	return map[string]string{
		"accountId":       "100001",
		"accountPassword": "passphrase",
		"walletNumber":    "U1",
		"walletCurrency":  "USD",
		"alternateSecret": "SECRET",
		"merchantName":    "Test Shop",
		"resultUrl":       "https://shop.example.com/callback/perfectmoney",
		"successUrl":      "https://shop.example.com/success",
		"failureUrl":      "https://shop.example.com/failure",
		"apiUrl":          apiURL,
	}
}

func testLogger() (*logger.SystemLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := logger.NewSystemLogger(nil, logger.SystemLoggerConfig{
		EnableConsole: true,
		MinLevel:      logger.LevelDebug,
		Service:       "test",
	})
	l.SetOutput(&buf)
	return l, &buf
}

type fakeUnitOfWork struct {
	mu        sync.Mutex
	opened    int
	commits   int
	rollbacks int
}

func (u *fakeUnitOfWork) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	u.mu.Lock()
	u.opened++
	u.mu.Unlock()

	err := fn(ctx)

	u.mu.Lock()
	defer u.mu.Unlock()
	if err != nil {
		u.rollbacks++
		return err
	}
	u.commits++
	return nil
}

type recordingRecorder struct {
	mu        sync.Mutex
	calls     []provider.APICall
	callbacks []string
}

func (r *recordingRecorder) RecordCall(_ context.Context, call provider.APICall) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

func (r *recordingRecorder) RecordCallback(_ context.Context, component, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callbacks = append(r.callbacks, component+":"+outcome)
}
