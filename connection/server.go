package connection

import (
	"context"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"planner/config"
	listcontroller "planner/controller/list"
	taskcontroller "planner/controller/task"
	"planner/middleware"
	"planner/notification"
	"planner/repository"
	"planner/scheduler"
	"planner/store"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func StartServer(cfg *config.Config, log *logrus.Logger) error {
	router := gin.Default()
	router.Use(cors.Default())

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Api is running!"})
	})

	var taskRepo repository.TaskRepository
	var listRepo repository.ListRepository
	if cfg.StoreBackend == "memory" {
		mem := repository.NewMemoryRepository()
		taskRepo, listRepo = mem, mem
		log.Warn("using in-memory store backend, data is not persisted")
	} else {
		client, err := FBConnection(cfg.CredentialsFile)
		if err != nil {
			return err
		}
		fs := repository.NewFirestoreRepository(client)
		taskRepo, listRepo = fs, fs
	}

	emailSender, err := notification.NewEmailSender(notification.EmailConfig{
		Provider:      cfg.EmailProvider,
		SMTPHost:      cfg.SMTPHost,
		SMTPPort:      cfg.SMTPPort,
		SMTPUsername:  cfg.SMTPUsername,
		SMTPPassword:  cfg.SMTPPassword,
		From:          cfg.EmailFrom,
		SendGridKey:   cfg.SendGridKey,
		MailgunKey:    cfg.MailgunKey,
		MailgunDomain: cfg.MailgunDomain,
	}, log)
	if err != nil {
		return err
	}

	hub := notification.NewHub(log)
	stores := store.NewRegistry(taskRepo, listRepo, log)

	taskcontroller.TaskController(router, stores)
	listcontroller.ListController(router, stores)

	// A websocket session is the browser channel and the scheduler's
	// lifetime in one: reminders are scanned for an owner only while
	// that owner has a live connection.
	router.GET("/ws", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
		sess := middleware.SessionFromContext(c)

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.WithError(err).Warn("websocket upgrade failed")
			return
		}

		client := notification.NewClient(hub, conn, sess.UserID)
		hub.Register(client)

		taskStore := stores.TaskStore(sess)
		if err := taskStore.Load(context.Background()); err != nil {
			log.WithError(err).WithField("owner", sess.UserID).Warn("initial task load failed")
		}

		sched := scheduler.New(scheduler.Config{
			Store:    taskStore,
			Session:  sess,
			Browser:  hub,
			Email:    emailSender,
			Address:  sess.Email,
			Window:   cfg.NotifyWindow,
			Interval: cfg.NotifyInterval,
			Log:      log,
		})

		ctx, cancel := context.WithCancel(context.Background())
		sched.Start(ctx)

		go client.WritePump()
		go func() {
			client.ReadPump()
			sched.Stop()
			cancel()
		}()
	})

	return router.Run(":" + cfg.Port)
}
