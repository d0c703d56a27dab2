package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Zack-Nika/Francos-Security/internal/antinuke"
	"github.com/Zack-Nika/Francos-Security/internal/approval"
	"github.com/Zack-Nika/Francos-Security/internal/bot"
	"github.com/Zack-Nika/Francos-Security/internal/classifier"
	"github.com/Zack-Nika/Francos-Security/internal/commands"
	"github.com/Zack-Nika/Francos-Security/internal/config"
	"github.com/Zack-Nika/Francos-Security/internal/database"
	"github.com/Zack-Nika/Francos-Security/internal/dispatcher"
	"github.com/Zack-Nika/Francos-Security/internal/logging"
	"github.com/Zack-Nika/Francos-Security/internal/notifier"
	"github.com/Zack-Nika/Francos-Security/internal/quarantine"
	"github.com/Zack-Nika/Francos-Security/internal/snapshot"
	"github.com/Zack-Nika/Francos-Security/internal/trust"
	"github.com/Zack-Nika/Francos-Security/internal/watchdog"
)

const backupInterval = 6 * time.Hour

func main() {
	fmt.Println("🔱 Starting Franco's Security")

	cfg := config.LoadOrDefault("config.json")
	if cfg.Bot.Token == "" {
		fmt.Println("No bot token configured (config.json or DISCORD_TOKEN)")
		os.Exit(1)
	}
	if cfg.Bot.OwnerID == "" {
		fmt.Println("No operator configured (config.json or OWNER_ID)")
		os.Exit(1)
	}

	if err := logging.InitGlobalLogger(logging.LevelInfo, cfg.Storage.LogFile); err != nil {
		fmt.Printf("Logger init failed: %v\n", err)
		os.Exit(1)
	}

	if err := database.Initialize(cfg.Storage.DatabasePath); err != nil {
		logging.Error("Database init failed: %v", err)
		os.Exit(1)
	}
	db := database.GetDB()
	fmt.Println("Database initialized ✓")

	// Core services, hydrated from the store before any event arrives.
	ledger := trust.NewLedger(db, cfg.Quarantine.DefaultTrust)
	whitelist := trust.NewWhitelist(db)
	if err := whitelist.Hydrate(); err != nil {
		logging.Warn("Whitelist hydration failed: %v", err)
	}
	approvals := approval.NewSet(db)
	if err := approvals.Hydrate(); err != nil {
		logging.Warn("Approval hydration failed: %v", err)
	}
	cls := classifier.New(&cfg.Detection)

	if err := bot.Initialize(cfg.Bot.Token); err != nil {
		logging.Error("Bot init failed: %v", err)
		os.Exit(1)
	}
	session := bot.GetSession()

	platform := bot.NewPlatformAdapter(session)
	snapshots := snapshot.NewManager(db, bot.NewSnapshotProvider(session))
	assigner := bot.NewQuarantineRoleAssigner(session, &cfg.Quarantine)

	// Punitive actions go through the dispatcher queue and REST workers.
	queue := dispatcher.NewJobQueue()
	pool := dispatcher.NewHTTPPool(cfg.Network.HTTPPoolSize)
	rateLimiter := dispatcher.NewRateLimitMonitor()
	executor := dispatcher.NewPunishExecutor(pool, rateLimiter)

	onOutcome := func(o dispatcher.Outcome) {
		if o.Err == nil {
			notifier.NotifyPunishment(o.Job.GuildID, o.Job.UserID, o.Job.Reason)
		}
	}

	wd := watchdog.New(30 * time.Second)
	wd.Register("gateway", 5*time.Minute)
	wd.Register("database", 5*time.Minute)

	workers := make([]*dispatcher.RESTWorker, cfg.Network.WorkerCount)
	for i := 0; i < cfg.Network.WorkerCount; i++ {
		workers[i] = dispatcher.NewRESTWorker(queue, executor, i, onOutcome)
		name := fmt.Sprintf("rest-worker-%d", i)
		wd.Register(name, 5*time.Minute)
		workers[i].SetHeartbeat(func() { wd.Heartbeat(name) })
		go workers[i].Start()
	}

	punisher := bot.NewDispatchPunisher(session, platform, queue)
	supervisor := quarantine.NewSupervisor(ledger, assigner, &cfg.Quarantine)
	controller := antinuke.NewController(db, platform, whitelist, punisher, snapshots)

	session.SetupEventHandlers(&bot.Handlers{
		Cfg:        cfg,
		Approvals:  approvals,
		Whitelist:  whitelist,
		Ledger:     ledger,
		Classifier: cls,
		Supervisor: supervisor,
		Controller: controller,
		Platform:   platform,
		Punisher:   punisher,
	})

	if err := session.Connect(); err != nil {
		logging.Error("Discord connection failed: %v", err)
		os.Exit(1)
	}

	notifier.SetSession(session.GetDiscord())

	if err := commands.Initialize(session, &commands.Deps{
		Cfg:       cfg,
		DB:        db,
		Approvals: approvals,
		Whitelist: whitelist,
		Ledger:    ledger,
		Snapshots: snapshots,
		Platform:  platform,
	}); err != nil {
		logging.Error("Command init failed: %v", err)
		os.Exit(1)
	}

	wd.Start()

	stop := make(chan struct{})
	go monitorHealth(session, wd, stop)
	go periodicBackups(session, approvals, snapshots, stop)

	logging.Info("All components started successfully")
	fmt.Println("Franco's Security is online ✓")

	waitForShutdown()

	close(stop)
	wd.Stop()
	queue.Close()
	for _, worker := range workers {
		worker.Stop()
	}
	session.Close()
	database.Close()
	logging.Info("Shutdown complete")
	logging.CloseGlobalLogger()
}

// monitorHealth feeds the watchdog from the gateway heartbeat and a store
// ping.
func monitorHealth(session *bot.Session, wd *watchdog.Watchdog, stop <-chan struct{}) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if session.GetDiscord().HeartbeatLatency() < time.Minute {
				wd.Heartbeat("gateway")
			}
			if database.IsConnected() {
				wd.Heartbeat("database")
			}
		}
	}
}

// periodicBackups refreshes the structural snapshot of every approved guild.
func periodicBackups(session *bot.Session, approvals *approval.Set, snapshots *snapshot.Manager, stop <-chan struct{}) {
	ticker := time.NewTicker(backupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			for _, guild := range session.GetDiscord().State.Guilds {
				if !approvals.IsApproved(guild.ID) {
					continue
				}
				if err := snapshots.Capture(guild.ID); err != nil {
					logging.Warn("Periodic backup failed for guild %s: %v", guild.ID, err)
				}
			}
		}
	}
}

func waitForShutdown() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	fmt.Println("\nShutdown signal received")
}
