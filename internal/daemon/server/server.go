// Package server implements the command bridge: the tray host's gRPC
// services, served as native gRPC (h2c) and grpc-web on one loopback port.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/improbable-eng/grpc-web/go/grpcweb"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"google.golang.org/grpc"

	"github.com/clockbar/clockbar/internal/daemon/commands"
	"github.com/clockbar/clockbar/internal/daemon/window"
)

// DefaultHost is the loopback address the bridge binds to.
const DefaultHost = "127.0.0.1"

// Options configures the bridge.
type Options struct {
	// Host defaults to DefaultHost.
	Host string
	// Port 0 selects a free port.
	Port int
	// Token is the bearer token every call must present.
	Token string
	// SettingsPath is reported by AppService.GetStatus.
	SettingsPath string
	// CheckUpdate, when set, runs once in the background on Serve.
	CheckUpdate UpdateCheckFunc
}

// Server is the tray host's command bridge.
type Server struct {
	grpcServer   *grpc.Server
	httpServer   *http.Server
	listener     net.Listener
	host         string
	port         int
	pid          int
	startedAt    time.Time
	settingsPath string
	updateState  UpdateState
	checkUpdate  UpdateCheckFunc
	stopOnce     sync.Once
}

// New creates a server listening on the given loopback port.
func New(cmds *commands.Commands, remote *window.Remote, opts Options) (*Server, error) {
	if opts.Token == "" {
		return nil, fmt.Errorf("bridge token is required")
	}
	host := opts.Host
	if host == "" {
		host = DefaultHost
	}

	listener, err := (&net.ListenConfig{}).Listen(context.TODO(), "tcp", net.JoinHostPort(host, fmt.Sprint(opts.Port)))
	if err != nil {
		return nil, fmt.Errorf("failed to listen: %w", err)
	}

	// Get actual port if dynamically allocated
	actualPort := listener.Addr().(*net.TCPAddr).Port

	auth := tokenAuth{token: opts.Token}
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(logUnary, auth.unary),
		grpc.StreamInterceptor(auth.stream),
	)

	srv := &Server{
		grpcServer:   grpcServer,
		listener:     listener,
		host:         host,
		port:         actualPort,
		pid:          os.Getpid(),
		startedAt:    time.Now().UTC(),
		settingsPath: opts.SettingsPath,
		checkUpdate:  opts.CheckUpdate,
	}

	// Register services
	RegisterSettingsServiceServer(grpcServer, &settingsService{cmds: cmds})
	RegisterTrayServiceServer(grpcServer, &trayService{cmds: cmds})
	RegisterWindowServiceServer(grpcServer, &windowService{cmds: cmds, remote: remote})
	RegisterAppServiceServer(grpcServer, &appService{cmds: cmds, server: srv})

	web := grpcweb.WrapServer(grpcServer,
		grpcweb.WithOriginFunc(allowOrigin),
		grpcweb.WithAllowedRequestHeaders([]string{authorizationKey, "content-type", "x-grpc-web", "x-user-agent"}),
	)
	srv.httpServer = &http.Server{
		Handler:           h2c.NewHandler(srv.route(web), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return srv, nil
}

// route sends grpc-web requests (and their CORS preflights) to the wrapper
// and native gRPC requests to the gRPC server.
func (s *Server) route(web *grpcweb.WrappedGrpcServer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case web.IsGrpcWebRequest(r), web.IsAcceptableGrpcCorsRequest(r):
			web.ServeHTTP(w, r)
		case r.ProtoMajor == 2 && strings.HasPrefix(r.Header.Get("Content-Type"), "application/grpc"):
			s.grpcServer.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// allowOrigin accepts webview origins: loopback pages and the custom
// schemes desktop webviews load their assets from.
func allowOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	switch u.Scheme {
	case "http", "https":
		host := u.Hostname()
		if host == "localhost" {
			return true
		}
		ip := net.ParseIP(host)
		return ip != nil && ip.IsLoopback()
	case "":
		return false
	default:
		// tauri://localhost, wails://wails, app://...
		return true
	}
}

func logUnary(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	resp, err := handler(ctx, req)
	if err != nil {
		log.Printf("[bridge] %s failed: %v", info.FullMethod, err)
	}
	return resp, err
}

// Host returns the address the server is bound to.
func (s *Server) Host() string {
	return s.host
}

// Port returns the port the server is listening on.
func (s *Server) Port() int {
	return s.port
}

// Serve starts serving requests. This blocks until Stop is called.
func (s *Server) Serve() error {
	s.startUpdateCheck()
	err := s.httpServer.Serve(s.listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop closes every stream and the listener. It is safe to call more than
// once.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		// GracefulStop panics on ServeHTTP transports.
		s.grpcServer.Stop()
		if err := s.httpServer.Close(); err != nil {
			log.Printf("[bridge] Failed to close listener: %v", err)
		}
	})
}
