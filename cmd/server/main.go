// Command server bootstraps the engine worker and its telnet/WebSocket
// transports (spec §4/§5), generalizing the teacher's single WebSocket
// Server.Run select loop in this same file into process wiring around
// internal/engine's own fixed-tick worker.
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/redis/go-redis/v9"

	"github.com/ambonmud/ambonmud/internal/bus"
	"github.com/ambonmud/ambonmud/internal/clock"
	"github.com/ambonmud/ambonmud/internal/cluster/lease"
	"github.com/ambonmud/ambonmud/internal/cluster/router"
	"github.com/ambonmud/ambonmud/internal/config"
	"github.com/ambonmud/ambonmud/internal/engine"
	"github.com/ambonmud/ambonmud/internal/events"
	"github.com/ambonmud/ambonmud/internal/ids"
	"github.com/ambonmud/ambonmud/internal/logging"
	"github.com/ambonmud/ambonmud/internal/metrics"
	"github.com/ambonmud/ambonmud/internal/persistence"
	"github.com/ambonmud/ambonmud/internal/persistence/memstore"
	"github.com/ambonmud/ambonmud/internal/persistence/sqlstore"
	"github.com/ambonmud/ambonmud/internal/rng"
	"github.com/ambonmud/ambonmud/internal/transport/telnet"
	"github.com/ambonmud/ambonmud/internal/transport/ws"
)

// inboundAttemptTimeout and inboundMaxAttempts bound how long a
// transport goroutine retries against a full inbound bus before
// giving up and disconnecting its own session (spec §4.3); small
// enough that a stalled engine tick shows up as a flood of
// backpressure disconnects rather than a pile of stuck goroutines.
const (
	inboundAttemptTimeout = 20 * time.Millisecond
	inboundMaxAttempts    = 3
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "ambonmud: config:", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ambonmud: logging:", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting", zap.String("server", cfg.ServerName), zap.String("version", cfg.ServerVersion))

	repo, closeRepo, err := openRepository(cfg, log)
	if err != nil {
		log.Fatal("opening player repository", zap.Error(err))
	}
	defer closeRepo()

	gatewayId, releaseLease := acquireGatewayId(cfg, log)
	defer releaseLease()

	inbound := bus.NewInbound(cfg.InboundChannelCapacity)
	outbound := bus.NewOutbound(cfg.OutboundChannelCapacity, cfg.SessionOutboundQueueCapacity, 2*time.Second,
		func(sid ids.SessionId, reason events.DisconnectReason) {
			log.Warn("session closed by outbound backpressure", zap.Uint64("session", uint64(sid)), zap.String("reason", reason.String()))
			inbound.Push(events.NewDisconnected(sid, reason))
		})

	sessionIds := sessionIdGenerator(cfg, gatewayId, outbound, log)

	eng, err := engine.New(cfg, log, repo, clock.System{}, rng.New(time.Now().UnixNano()), metrics.Nop{}, inbound, outbound)
	if err != nil {
		log.Fatal("constructing engine", zap.Error(err))
	}

	outboundStop := make(chan struct{})
	go outbound.RunDispatch(outboundStop)

	telnetSrv := telnet.NewServer(telnet.Options{
		ReadBufferBytes: cfg.TelnetReadBufferBytes,
		Limits: telnet.Limits{
			MaxLineLen:             cfg.TelnetLineMaxLength,
			MaxNonPrintablePerLine: cfg.TelnetMaxNonPrintablePerLine,
			MaxSubnegotiationLen:   telnet.DefaultLimits.MaxSubnegotiationLen,
		},
		PromptText:            cfg.PromptText,
		InboundAttemptTimeout: inboundAttemptTimeout,
		InboundMaxAttempts:    inboundMaxAttempts,
	}, inbound, outbound, sessionIds, log, eng.VitalsFor, eng.AnsiEnabled, eng.GmcpNegotiated)

	wsSrv := ws.NewServer(ws.Options{
		ReadBufferBytes:       4096,
		WriteBufferBytes:      4096,
		PromptText:            cfg.PromptText,
		InboundAttemptTimeout: inboundAttemptTimeout,
		InboundMaxAttempts:    inboundMaxAttempts,
	}, inbound, outbound, sessionIds, log, eng.VitalsFor, eng.GmcpNegotiated)

	telnetAddr := fmt.Sprintf(":%d", cfg.TelnetPort)
	telnetLn, err := net.Listen("tcp", telnetAddr)
	if err != nil {
		log.Fatal("telnet listen", zap.Error(err), zap.String("addr", telnetAddr))
	}
	telnetStop := make(chan struct{})
	go telnetSrv.Serve(telnetLn, telnetStop)
	log.Info("telnet listening", zap.String("addr", telnetAddr))

	mux := http.NewServeMux()
	mux.Handle("/ws", wsSrv.Handler())
	httpSrv := &http.Server{Addr: fmt.Sprintf("%s:%d", cfg.WebHost, cfg.WebPort), Handler: mux}
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("websocket listener stopped", zap.Error(err))
		}
	}()
	log.Info("websocket listening", zap.String("addr", httpSrv.Addr))

	go eng.Run()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutdown signal received")

	shutdown(cfg, log, eng, httpSrv, telnetStop, outboundStop)
}

// shutdown stops every subsystem in dependency order: transports first
// so no new inbound work arrives, then the engine, then the outbound
// dispatcher. Only the WebSocket HTTP server's shutdown is bounded by
// ShutdownTimeoutSecs; the engine stop is not.
func shutdown(cfg *config.Config, log *zap.Logger, eng *engine.Engine, httpSrv *http.Server, telnetStop, outboundStop chan struct{}) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeoutSecs)*time.Second)
	defer cancel()

	close(telnetStop)
	if err := httpSrv.Shutdown(ctx); err != nil {
		log.Warn("websocket shutdown", zap.Error(err))
	}

	eng.Stop()
	close(outboundStop)
	log.Info("shutdown complete")
}

// openRepository selects the persistence backend named by cfg.DBType.
// Any value other than "sqlite" or "postgres" logs a warning and falls
// back to the in-memory store, whose data does not survive a restart;
// sqlstore.Open is not called in that case.
func openRepository(cfg *config.Config, log *zap.Logger) (persistence.PlayerRepository, func(), error) {
	switch cfg.DBType {
	case "sqlite":
		store, err := sqlstore.Open(cfg.DBType, cfg.DBName, log)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=disable",
			cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBUser, cfg.DBPassword)
		store, err := sqlstore.Open(cfg.DBType, dsn, log)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	default:
		log.Warn("unrecognized DB_TYPE, using in-memory store", zap.String("db_type", cfg.DBType))
		return memstore.New(), func() {}, nil
	}
}

// acquireGatewayId leases a small integer gateway id from Redis when
// multi-gateway mode is on (spec §5.1/§7's duplicate-lease fatal
// startup error), or returns 0 with a no-op release for the common
// single-gateway deployment.
func acquireGatewayId(cfg *config.Config, log *zap.Logger) (uint16, func()) {
	if !cfg.MultiGatewayEnabled {
		return 0, func() {}
	}

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%d", cfg.RedisHost, cfg.RedisPort), DB: cfg.RedisDB})
	token := fmt.Sprintf("%d-%d", os.Getpid(), time.Now().UnixNano())
	held, err := lease.Acquire(context.Background(), client, cfg.GatewayLeaseCount, time.Duration(cfg.GatewayLeaseTtlSecs)*time.Second, token)
	if err != nil {
		log.Fatal("acquiring gateway lease", zap.Error(err))
	}
	log.Info("acquired gateway lease", zap.Int("gateway_id", held.Id()))
	return uint16(held.Id()), func() { held.Release(context.Background()) }
}

// sessionIdSource is satisfied by *ids.SessionCounter and
// *ids.Snowflake; it mirrors the unexported interface each transport
// package declares for itself so main doesn't need to import either
// transport package just to name this type.
type sessionIdSource interface {
	Next() ids.SessionId
}

// sessionIdGenerator picks ids.Snowflake in multi-gateway mode so
// session ids stay globally unique across nodes, and the simpler
// ids.SessionCounter otherwise. In multi-gateway mode the generator is
// wrapped in routedSessionIds so every freshly minted id is checked
// against the rendezvous ring (spec §5.1): a connection this gateway
// happened to accept but the ring places on another node gets a
// SessionRedirect queued immediately, same as a reconnect would.
func sessionIdGenerator(cfg *config.Config, gatewayId uint16, outbound *bus.Outbound, log *zap.Logger) sessionIdSource {
	if !cfg.MultiGatewayEnabled {
		return &ids.SessionCounter{}
	}
	gen := ids.NewSnowflake(gatewayId, func() uint32 { return uint32(time.Now().Unix()) })
	nodes := strings.Split(cfg.ClusterNodes, ",")
	return &routedSessionIds{gen: gen, router: router.New(nodes), self: cfg.ClusterSelfNode, outbound: outbound, log: log}
}

// routedSessionIds decorates a sessionIdSource with rendezvous-hash
// placement checking, grounded on internal/cluster/router.Router's
// NodeFor (SPEC_FULL.md §5.1).
type routedSessionIds struct {
	gen      sessionIdSource
	router   *router.Router
	self     string
	outbound *bus.Outbound
	log      *zap.Logger
}

func (r *routedSessionIds) Next() ids.SessionId {
	sid := r.gen.Next()
	if owner := r.router.NodeFor(sid); owner != r.self {
		r.log.Warn("session placed on a different ring node than this gateway",
			zap.Uint64("session", uint64(sid)), zap.String("self", r.self), zap.String("owner", owner))
		r.outbound.Enqueue(events.NewSessionRedirect(sid, owner))
	}
	return sid
}
