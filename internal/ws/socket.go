package ws

import (
    "context"
    "net/http"
    "sync"

    "github.com/gin-gonic/gin"
    socketio "github.com/googollee/go-socket.io"
    "github.com/kiliankoe/rummypool/internal/game"
    "github.com/rs/zerolog/log"
)

const namespace = "/"

type ConnCtx struct {
    Code string
}

type watchRequest struct {
    GameID string `json:"gameId"`
}

// Server pushes game snapshots to spectators. Mutations go through the
// HTTP API, sockets only watch.
type Server struct {
    GM      *game.Manager
    mu      sync.Mutex
    members map[string]map[string]socketio.Conn // gameCode -> socketID -> Conn
}

func New(gm *game.Manager) *Server {
    return &Server{GM: gm, members: make(map[string]map[string]socketio.Conn)}
}

// SetManager is for wiring: the manager needs the server as its notifier
// before the server can look games up.
func (srv *Server) SetManager(gm *game.Manager) { srv.GM = gm }

// Mount attaches Socket.IO server with handlers to the given Gin engine.
func (srv *Server) Mount(r *gin.Engine) *socketio.Server {
    io := socketio.NewServer(nil)

    io.OnConnect(namespace, func(s socketio.Conn) error {
        s.SetContext(&ConnCtx{})
        log.Info().Str("sid", s.ID()).Msg("socket connected")
        return nil
    })

    io.OnEvent(namespace, "game:watch", srv.onWatch)
    io.OnEvent(namespace, "game:unwatch", srv.onUnwatch)

    io.OnError(namespace, func(s socketio.Conn, e error) {
        if s == nil {
            log.Error().Err(e).Msg("socket error")
            return
        }
        log.Error().Str("sid", s.ID()).Err(e).Msg("socket error")
    })
    io.OnDisconnect(namespace, func(s socketio.Conn, reason string) {
        if ctx, ok := s.Context().(*ConnCtx); ok && ctx.Code != "" {
            srv.removeMember(ctx.Code, s)
        }
        log.Info().Str("sid", s.ID()).Str("reason", reason).Msg("socket disconnected")
    })

    go io.Serve()

    r.GET("/socket.io/*any", gin.WrapH(io))
    r.POST("/socket.io/*any", gin.WrapH(io))

    // Basic CORS preflight for Socket.IO POST
    r.OPTIONS("/socket.io/*any", func(c *gin.Context) {
        c.Header("Access-Control-Allow-Origin", "*")
        c.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
        c.Header("Access-Control-Allow-Headers", "Content-Type")
        c.Status(http.StatusNoContent)
    })

    return io
}

func (srv *Server) onWatch(s socketio.Conn, payload watchRequest) map[string]any {
    code := payload.GameID
    if ctx, ok := s.Context().(*ConnCtx); ok && ctx.Code != "" && ctx.Code != code {
        s.Leave(ctx.Code)
        srv.removeMember(ctx.Code, s)
        s.SetContext(&ConnCtx{})
    }
    // join before reading so no update between Get and join is missed
    srv.addMember(code, s)
    snap, err := srv.GM.Get(context.Background(), code)
    if err != nil {
        srv.removeMember(code, s)
        return srv.err(s, "game_not_found", "Game not found")
    }
    s.SetContext(&ConnCtx{Code: code})
    s.Join(code)
    log.Info().Str("sid", s.ID()).Str("code", code).Msg("game:watch")
    s.Emit("game:state", snap)
    return map[string]any{"ok": true}
}

func (srv *Server) onUnwatch(s socketio.Conn) map[string]any {
    if ctx, ok := s.Context().(*ConnCtx); ok && ctx.Code != "" {
        s.Leave(ctx.Code)
        srv.removeMember(ctx.Code, s)
        log.Info().Str("sid", s.ID()).Str("code", ctx.Code).Msg("game:unwatch")
    }
    s.SetContext(&ConnCtx{})
    return map[string]any{"ok": true}
}

// Publish implements game.Notifier by emitting the snapshot to every
// socket watching code.
func (srv *Server) Publish(code string, snap game.Snapshot) {
    srv.mu.Lock()
    conns := make([]socketio.Conn, 0, len(srv.members[code]))
    for _, c := range srv.members[code] {
        conns = append(conns, c)
    }
    srv.mu.Unlock()

    for _, c := range conns {
        c.Emit("game:state", snap)
    }
    if len(conns) > 0 {
        log.Debug().Str("code", code).Int("watchers", len(conns)).Msg("game:state broadcast")
    }
}

// Watchers counts sockets currently following code.
func (srv *Server) Watchers(code string) int {
    srv.mu.Lock()
    defer srv.mu.Unlock()
    return len(srv.members[code])
}

func (srv *Server) addMember(code string, c socketio.Conn) {
    srv.mu.Lock()
    defer srv.mu.Unlock()
    if srv.members[code] == nil {
        srv.members[code] = make(map[string]socketio.Conn)
    }
    srv.members[code][c.ID()] = c
}

func (srv *Server) removeMember(code string, c socketio.Conn) {
    srv.mu.Lock()
    defer srv.mu.Unlock()
    if m := srv.members[code]; m != nil {
        delete(m, c.ID())
        if len(m) == 0 {
            delete(srv.members, code)
        }
    }
}

func (srv *Server) err(s socketio.Conn, code, message string) map[string]any {
    s.Emit("error", map[string]any{"code": code, "message": message})
    return map[string]any{"error": message}
}
