package stdlib

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
)

// server is one fiber app started by a script.
type server struct {
	app  *fiber.App
	port int
	done chan struct{}
}

func newApp() *fiber.App {
	return fiber.New(fiber.Config{
		DisableStartupMessage: true,
		Immutable:             true,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
	})
}

// serve binds port synchronously so address errors reach the script, then
// serves app in the runtime's errgroup.
func (rt *Runtime) serve(app *fiber.App, port int) (*server, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, err
	}
	s := &server{app: app, port: ln.Addr().(*net.TCPAddr).Port, done: make(chan struct{})}
	rt.servers = append(rt.servers, s)
	rt.group.Go(func() error {
		defer close(s.done)
		err := app.Listener(ln)
		if err != nil && !errors.Is(err, net.ErrClosed) {
			rt.log.Error().Int("port", s.port).Err(err).Msg("server stopped")
			return err
		}
		return nil
	})
	rt.log.Info().Int("port", s.port).Msg("server started")
	return s, nil
}

func (s *server) shutdown(ctx context.Context) {
	select {
	case <-s.done:
		return
	default:
	}
	_ = s.app.ShutdownWithContext(ctx)
}

func (rt *Runtime) serverByPort(port int) *server {
	for _, s := range rt.servers {
		if s.port == port {
			return s
		}
	}
	return nil
}
