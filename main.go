package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"astraldraw/application"
	"astraldraw/application/dto"
	"astraldraw/cmd"
	"astraldraw/config"
	"astraldraw/crypto"
	"astraldraw/database"
	"astraldraw/domain/interfaces"
	"astraldraw/infrastructure"
	"astraldraw/repository"
)

func main() {
	// Migration subcommands
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := handleMigrationCommand(); err != nil {
			log.Fatal("Migration error:", err)
		}
		return
	}

	// Offline admin subcommands
	switch {
	case len(os.Args) > 1 && os.Args[1] == "create-draw":
		if err := handleCreateDraw(); err != nil {
			log.Fatal("Create draw error:", err)
		}
		return
	case len(os.Args) > 1 && os.Args[1] == "activate-draw":
		if err := handleDrawTransition("activate"); err != nil {
			log.Fatal("Activate draw error:", err)
		}
		return
	case len(os.Args) > 1 && os.Args[1] == "cancel-draw":
		if err := handleDrawTransition("cancel"); err != nil {
			log.Fatal("Cancel draw error:", err)
		}
		return
	case len(os.Args) > 1 && os.Args[1] == "process-draw":
		if err := handleProcessDraw(); err != nil {
			log.Fatal("Process draw error:", err)
		}
		return
	case len(os.Args) > 1 && os.Args[1] == "submit-ticket":
		if err := handleSubmitTicket(); err != nil {
			log.Fatal("Submit ticket error:", err)
		}
		return
	case len(os.Args) > 1 && os.Args[1] == "provision-wallet":
		if err := handleProvisionWallet(); err != nil {
			log.Fatal("Provision wallet error:", err)
		}
		return
	case len(os.Args) > 1 && os.Args[1] == "stats":
		if err := handleStats(); err != nil {
			log.Fatal("Stats error:", err)
		}
		return
	}

	// Normal service operation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Received shutdown signal, shutting down gracefully...")
		cancel()
	}()

	if err := cmd.Run(ctx); err != nil {
		log.Fatal("Application error:", err)
	}
}

func handleMigrationCommand() error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: astraldraw migrate [up|down|status] [args...]")
	}

	command := os.Args[2]
	switch command {
	case "up":
		return database.MigrateUp()
	case "down":
		steps := "1"
		if len(os.Args) > 3 {
			steps = os.Args[3]
		}
		return database.MigrateDown(steps)
	case "status":
		return database.MigrateStatus()
	default:
		return fmt.Errorf("unknown migration command: %s", command)
	}
}

// adminStack wires the application layer for offline admin commands.
// Events stay in-process: admin runs use the no-op publisher, matching
// how maintenance commands bypass the broker.
type adminStack struct {
	db         *database.DB
	cfg        *config.Config
	codec      *crypto.Codec
	cache      *infrastructure.RedisCacheStore
	uowFactory application.UnitOfWorkFactory
}

func newAdminStack(ctx context.Context) (*adminStack, error) {
	cfg := config.Get()

	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	codec, err := crypto.NewCodec(cfg.SecretKey)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize key codec: %w", err)
	}

	publisherFactory := func() interfaces.TransactionalEventPublisher {
		return infrastructure.NewNoopEventPublisher()
	}

	return &adminStack{
		db:         db,
		cfg:        cfg,
		codec:      codec,
		cache:      infrastructure.NewRedisCacheStore(cfg.RedisAddrs, cfg.RedisPassword),
		uowFactory: repository.NewUnitOfWorkFactory(db, publisherFactory),
	}, nil
}

func (s *adminStack) Close() {
	if err := s.cache.Close(); err != nil {
		log.Printf("Error closing cache connections: %v", err)
	}
	s.db.Close()
}

func handleCreateDraw() error {
	if len(os.Args) < 6 {
		return fmt.Errorf("usage: astraldraw create-draw admin-ref title prize-pool draw-datetime(RFC3339)")
	}

	drawDatetime, err := time.Parse(time.RFC3339, os.Args[5])
	if err != nil {
		return fmt.Errorf("invalid draw datetime: %w", err)
	}

	ctx := context.Background()
	stack, err := newAdminStack(ctx)
	if err != nil {
		return err
	}
	defer stack.Close()

	drawApp := application.NewDrawApp(stack.uowFactory, stack.codec, stack.cache)
	resp := drawApp.CreateDraw(ctx, os.Args[2], dto.CreateDrawRequest{
		Title:        os.Args[3],
		PrizePool:    os.Args[4],
		DrawDatetime: drawDatetime,
	})
	if !resp.Success {
		return fmt.Errorf("%s (%s)", resp.Error, resp.Code)
	}

	log.Printf("Created draw %d: %s", resp.DrawID, resp.DrawTitle)
	return nil
}

func handleDrawTransition(action string) error {
	if len(os.Args) < 4 {
		return fmt.Errorf("usage: astraldraw %s-draw admin-ref draw-id", action)
	}

	drawID, err := strconv.ParseInt(os.Args[3], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid draw id: %w", err)
	}

	ctx := context.Background()
	stack, err := newAdminStack(ctx)
	if err != nil {
		return err
	}
	defer stack.Close()

	drawApp := application.NewDrawApp(stack.uowFactory, stack.codec, stack.cache)
	switch action {
	case "activate":
		err = drawApp.ActivateDraw(ctx, os.Args[2], drawID)
	case "cancel":
		err = drawApp.CancelDraw(ctx, os.Args[2], drawID)
	default:
		err = fmt.Errorf("unknown action: %s", action)
	}
	if err != nil {
		return err
	}

	log.Printf("Draw %d %sd", drawID, action)
	return nil
}

func handleProcessDraw() error {
	if len(os.Args) < 4 {
		return fmt.Errorf("usage: astraldraw process-draw admin-ref draw-id")
	}

	drawID, err := strconv.ParseInt(os.Args[3], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid draw id: %w", err)
	}

	ctx := context.Background()
	stack, err := newAdminStack(ctx)
	if err != nil {
		return err
	}
	defer stack.Close()

	drawApp := application.NewDrawApp(stack.uowFactory, stack.codec, stack.cache)
	resp := drawApp.ProcessDraw(ctx, os.Args[2], drawID)
	if !resp.Success {
		return fmt.Errorf("%s (%s)", resp.Error, resp.Code)
	}

	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return err
	}
	log.Printf("Draw %d processed:\n%s", drawID, out)
	return nil
}

func handleSubmitTicket() error {
	if len(os.Args) < 5 {
		return fmt.Errorf("usage: astraldraw submit-ticket owner-ref draw-id key1,key2,key3,key4,key5,key6")
	}

	drawID, err := strconv.ParseInt(os.Args[3], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid draw id: %w", err)
	}

	var starKeys []int
	for _, part := range strings.Split(os.Args[4], ",") {
		key, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return fmt.Errorf("invalid star key %q: %w", part, err)
		}
		starKeys = append(starKeys, key)
	}

	ctx := context.Background()
	stack, err := newAdminStack(ctx)
	if err != nil {
		return err
	}
	defer stack.Close()

	ticketApp := application.NewTicketApp(stack.uowFactory, stack.codec, stack.cache, stack.cfg.SerialPrefix, stack.cfg.MetadataImageBaseURL)
	resp := ticketApp.SubmitTicket(ctx, os.Args[2], drawID, dto.SubmitTicketRequest{StarKeys: starKeys})
	if !resp.Success {
		return fmt.Errorf("%s (%s)", resp.Error, resp.Code)
	}

	log.Printf("Ticket %s minted: %s", resp.SerialNumber, resp.Message)
	return nil
}

func handleProvisionWallet() error {
	if len(os.Args) < 4 {
		return fmt.Errorf("usage: astraldraw provision-wallet owner-ref owner-name")
	}

	ctx := context.Background()
	stack, err := newAdminStack(ctx)
	if err != nil {
		return err
	}
	defer stack.Close()

	ledger := infrastructure.NewLedgerHTTPClient(stack.cfg.LedgerServiceURL, stack.cfg.LedgerRequestTimeout)
	walletApp := application.NewWalletApp(stack.uowFactory, ledger, stack.codec)

	wallet, err := walletApp.GetOrCreateWallet(ctx, os.Args[2], os.Args[3])
	if err != nil {
		return err
	}

	log.Printf("Wallet %d ready for %s (public key %s)", wallet.ID, wallet.OwnerRef, wallet.PublicKey)
	return nil
}

func handleStats() error {
	ctx := context.Background()
	stack, err := newAdminStack(ctx)
	if err != nil {
		return err
	}
	defer stack.Close()

	statsApp := application.NewStatsApp(stack.uowFactory, stack.cache, stack.cfg.StatsCacheTTL, stack.cfg.DrawDetailCacheTTL)
	stats, err := statsApp.PlatformStats(ctx)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return err
	}
	log.Printf("Platform stats:\n%s", out)
	return nil
}
