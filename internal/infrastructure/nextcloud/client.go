// Package nextcloud sube archivos a un servidor Nextcloud vía WebDAV.
// Las credenciales llegan siempre por configuración; el cliente aplica un
// retry único en fallos transitorios y un circuit breaker para no insistir
// contra un servidor caído.
package nextcloud

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/jhoicas/docuflow-api/internal/domain"
	"github.com/jhoicas/docuflow-api/internal/observability/metrics"
	"github.com/jhoicas/docuflow-api/pkg/config"
	"github.com/jhoicas/docuflow-api/pkg/logger"
	"github.com/sony/gobreaker/v2"
)

// Client cliente WebDAV de Nextcloud.
type Client struct {
	baseURL   string
	username  string
	password  string
	directory string
	http      *http.Client
	breaker   *gobreaker.CircuitBreaker[any]
	log       *logger.Logger
	metrics   *metrics.Registry // nil = sin instrumentación
}

// New construye el cliente desde la configuración. Devuelve error si la URL
// base no es válida o faltan credenciales.
func New(cfg config.NextcloudConfig, log *logger.Logger, m *metrics.Registry) (*Client, error) {
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("nextcloud URL inválida: %w", err)
	}
	if cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("nextcloud requiere NEXTCLOUD_USER y NEXTCLOUD_PASSWORD")
	}
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:    "nextcloud-webdav",
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker cambió de estado")
		},
	})

	return &Client{
		baseURL:   cfg.BaseURL,
		username:  cfg.Username,
		password:  cfg.Password,
		directory: cfg.Directory,
		http:      &http.Client{Timeout: timeout},
		breaker:   breaker,
		log:       log,
		metrics:   m,
	}, nil
}

// Upload sube el archivo vía PUT WebDAV. Reintenta una única vez en fallo
// transitorio (error de red o 5xx/429); con el breaker abierto falla rápido.
func (c *Client) Upload(ctx context.Context, filename string, data io.Reader) error {
	// El retry necesita releer el contenido completo.
	content, err := io.ReadAll(data)
	if err != nil {
		return fmt.Errorf("%w: leer contenido: %v", domain.ErrRemoteStorage, err)
	}

	_, err = c.breaker.Execute(func() (any, error) {
		if err := c.put(ctx, filename, content); err != nil {
			if transient(err) {
				c.log.Warn().Err(err).Str("filename", filename).Msg("subida WebDAV fallida, reintentando")
				return nil, c.put(ctx, filename, content)
			}
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		outcome := "error"
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			outcome = "open_circuit"
		}
		c.record(outcome)
		return fmt.Errorf("%w: %v", domain.ErrRemoteStorage, err)
	}
	c.record("success")
	return nil
}

func (c *Client) put(ctx context.Context, filename string, content []byte) error {
	target, err := url.JoinPath(c.baseURL, c.username, c.directory, filename)
	if err != nil {
		return fmt.Errorf("construir URL destino: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, bytes.NewReader(content))
	if err != nil {
		return fmt.Errorf("crear request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.http.Do(req)
	if err != nil {
		return &transientError{err: fmt.Errorf("PUT WebDAV: %w", err)}
	}
	defer resp.Body.Close()

	// WebDAV responde 201 en creación y 204 en sobrescritura.
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	err = fmt.Errorf("PUT WebDAV status %d: %s", resp.StatusCode, string(body))
	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return &transientError{err: err}
	}
	return err
}

func (c *Client) record(outcome string) {
	if c.metrics != nil {
		c.metrics.RemoteUploads.WithLabelValues(outcome).Inc()
	}
}

// transientError marca fallos que ameritan retry (red, 5xx, 429).
type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

func transient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}
