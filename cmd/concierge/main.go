package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conciergehq/concierge/internal/profile"
	"github.com/conciergehq/concierge/plugin/ai/agent"
	"github.com/conciergehq/concierge/plugin/calendar"
	"github.com/conciergehq/concierge/server"
	"github.com/conciergehq/concierge/server/ai"
	"github.com/conciergehq/concierge/server/credential"
	apiv1 "github.com/conciergehq/concierge/server/router/api/v1"
	"github.com/conciergehq/concierge/store"
	"github.com/conciergehq/concierge/store/db"
)

const (
	version = "0.2.0"

	greetingBanner = `concierge - one endpoint, many agents`
)

var (
	rootCmd = &cobra.Command{
		Use:   "concierge",
		Short: "An agent-routing service for calendar and assistant commands",
		RunE: func(_ *cobra.Command, _ []string) error {
			instanceProfile := &profile.Profile{
				Mode:        viper.GetString("mode"),
				Addr:        viper.GetString("addr"),
				Port:        viper.GetInt("port"),
				Data:        viper.GetString("data"),
				Driver:      viper.GetString("driver"),
				DSN:         viper.GetString("dsn"),
				InstanceURL: viper.GetString("instance-url"),
				Version:     version,
			}
			instanceProfile.FromEnv()
			if err := instanceProfile.Validate(); err != nil {
				return fmt.Errorf("failed to validate profile: %w", err)
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			dbDriver, err := db.NewDBDriver(instanceProfile)
			if err != nil {
				return fmt.Errorf("failed to create db driver: %w", err)
			}

			storeInstance := store.New(dbDriver, instanceProfile)
			if err := storeInstance.Migrate(ctx); err != nil {
				return fmt.Errorf("failed to migrate store: %w", err)
			}

			serverInstance, err := buildServer(instanceProfile, storeInstance)
			if err != nil {
				return err
			}

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-sigChan
				slog.Info("shutting down")
				serverInstance.Shutdown(ctx)
				cancel()
			}()

			fmt.Println(greetingBanner)
			fmt.Printf("version %s, mode %s\n", instanceProfile.Version, instanceProfile.Mode)

			if err := serverInstance.Start(ctx); err != nil {
				slog.Info("server stopped", "reason", err)
			}

			<-ctx.Done()
			return nil
		},
	}
)

// buildServer wires the agents, gateway and transport together. Every
// component receives its configuration explicitly; nothing reads the
// environment past this point.
func buildServer(instanceProfile *profile.Profile, storeInstance *store.Store) (*server.Server, error) {
	logger := slog.Default()

	provider, err := ai.NewProvider(&ai.Config{
		BaseURL:   instanceProfile.LLMBaseURL,
		APIKey:    instanceProfile.LLMAPIKey,
		ChatModel: instanceProfile.LLMChatModel,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AI provider: %w", err)
	}
	if err := provider.Validate(); err != nil {
		return nil, err
	}

	gateway := credential.NewGateway(
		instanceProfile.GoogleClientID,
		instanceProfile.GoogleClientSecret,
		instanceProfile.GoogleRedirectURL,
		storeInstance,
		logger,
	)

	calendarProvider := calendar.NewGoogleProvider(
		instanceProfile.GoogleClientID,
		instanceProfile.GoogleClientSecret,
		instanceProfile.GoogleRedirectURL,
		logger,
	)

	generalAgent, err := agent.NewGeneralAgent(provider, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create general agent: %w", err)
	}

	calendarAgent, err := agent.NewCalendarAgent(
		gateway,
		agent.NewIntentClassifier(provider, logger),
		agent.NewDetailExtractor(provider, logger),
		calendarProvider,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar agent: %w", err)
	}

	router, err := agent.NewRouter(generalAgent, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create router: %w", err)
	}
	// Calendar is registered before email so it wins any keyword overlap.
	if err := router.Register("calendar", []string{"calendar", "meeting", "schedule", "appointment"}, calendarAgent); err != nil {
		return nil, err
	}
	if err := router.Register("email", []string{"email", "inbox"}, agent.NewEmailAgent(logger)); err != nil {
		return nil, err
	}

	apiService := apiv1.NewAPIV1Service(instanceProfile, router, gateway, logger)
	return server.NewServer(instanceProfile, storeInstance, apiService), nil
}

func init() {
	rootCmd.PersistentFlags().String("mode", "demo", `mode of server, can be "prod" or "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of server")
	rootCmd.PersistentFlags().Int("port", 8081, "port of server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", "database driver")
	rootCmd.PersistentFlags().String("dsn", "", "database source name (aka. DSN)")
	rootCmd.PersistentFlags().String("instance-url", "", "public url of this instance")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		panic(err)
	}

	viper.SetDefault("mode", "demo")
	viper.SetDefault("driver", "sqlite")
	viper.SetDefault("port", 8081)
	viper.SetEnvPrefix("concierge")
	viper.AutomaticEnv()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
}
