// Copyright 2025 Arion Yau
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package daemon

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"braviad/internal"
	"braviad/internal/bravia"
	"braviad/internal/logger"
	"braviad/internal/network"
	"braviad/internal/state"
)

// Daemon owns the device session, the variable store and the inbound
// command API for a single television
type Daemon struct {
	config  *Config
	store   *state.SQLiteStore
	session *bravia.Session
	api     *APIServer
	logger  zerolog.Logger
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewDaemon assembles a daemon from a configuration file
func NewDaemon(configPath string, debug bool) (*Daemon, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	store, err := state.Open(config.StorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open variable store: %w", err)
	}

	if err := seedStore(store, config, debug); err != nil {
		store.Close()
		return nil, err
	}

	endpoint := bravia.Endpoint{
		Host: config.Device.Host,
		PSK:  config.Device.PSK,
		MAC:  config.Device.MAC,
	}
	// Record the MAC up front so Wake-on-LAN works even after the
	// ARP entry has expired
	if endpoint.MAC == "" {
		if mac, ok := network.LookupMAC(endpoint.Host); ok {
			endpoint.MAC = mac
		}
	}

	options := internal.NewModeOptions(internal.WithDebug(debug || config.Debug))
	session := bravia.NewSession(endpoint, store, options)

	ctx, cancel := context.WithCancel(context.Background())

	daemon := &Daemon{
		config:  config,
		store:   store,
		session: session,
		api:     NewAPIServer(session, config.API.Listen),
		logger:  logger.GetLogger("daemon"),
		ctx:     ctx,
		cancel:  cancel,
	}

	session.OnConnectivityChange(func(connected bool) {
		daemon.logger.Info().
			Bool("connected", connected).
			Str("model", session.Model()).
			Msg("Device connectivity changed")
	})

	return daemon, nil
}

// seedStore mirrors the startup configuration into the variable store,
// which is the source of truth from then on
func seedStore(store *state.SQLiteStore, config *Config, debug bool) error {
	seeds := map[string]string{
		state.FieldIP:    config.Device.Host,
		state.FieldPSK:   config.Device.PSK,
		state.FieldMAC:   config.Device.MAC,
		state.FieldDebug: strconv.FormatBool(debug || config.Debug),
	}
	for name, value := range seeds {
		if err := store.Set(name, value); err != nil {
			return fmt.Errorf("failed to seed store: %w", err)
		}
	}
	return nil
}

// Session exposes the device session, used by tests and the TUI
func (d *Daemon) Session() *bravia.Session {
	return d.session
}

// Run starts the poll loop and the command API, then blocks until a
// shutdown signal arrives
func (d *Daemon) Run() error {
	d.logger.Info().
		Str("host", d.config.Device.Host).
		Str("listen", d.config.API.Listen).
		Msg("Starting braviad daemon")

	go d.session.Run(d.ctx)
	d.api.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		d.logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	case <-d.ctx.Done():
	}

	return d.Stop()
}

// Stop shuts everything down in reverse start order
func (d *Daemon) Stop() error {
	d.cancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := d.api.Stop(shutdownCtx); err != nil {
		d.logger.Warn().Err(err).Msg("API shutdown error")
	}

	if err := d.store.Close(); err != nil {
		d.logger.Warn().Err(err).Msg("Store close error")
	}

	d.logger.Info().Msg("Daemon stopped")
	return nil
}
