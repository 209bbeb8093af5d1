package Web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"FuncChat/chatManager"
	"FuncChat/misc"
)

// Server is the thin presentation shell over the orchestrator: it feeds
// user text in and relays the ordered display-event stream out over a
// websocket. No chat state lives here.
type Server struct {
	orch    *chatManager.Orchestrator
	manager *ClientManager
}

func NewServer(orch *chatManager.Orchestrator) *Server {
	s := &Server{
		orch:    orch,
		manager: NewClientManager(),
	}
	orch.SetEventHandler(func(ev chatManager.DisplayEvent) {
		s.manager.Broadcast(WebMsg{Type: "message", Data: ev})
	})
	orch.SetErrorHandler(func(err error) {
		misc.Warn("chat", err.Error(), nil)
		s.manager.Broadcast(WebMsg{Type: "error", Data: err.Error()})
	})
	return s
}

// StartWebServer serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) StartWebServer(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router()}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) router() *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		// 允许所有来源
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	r.POST("/api/chat", s.postChat)
	r.GET("/api/history", s.getHistory)
	r.GET("/ws", func(c *gin.Context) {
		handleWebSocket(c, s.manager)
	})
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"msg": "ok"})
	})
	return r
}

type chatRequest struct {
	Text string `json:"text"`
}

func (s *Server) postChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if err := s.orch.SubmitUserText(req.Text); err != nil {
		if errors.Is(err, chatManager.ErrBusy) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (s *Server) getHistory(c *gin.Context) {
	c.JSON(http.StatusOK, s.orch.Conversation().Snapshot())
}
