package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/yash-755/robo/internal/api"
	"github.com/yash-755/robo/internal/composer"
	"github.com/yash-755/robo/internal/config"
	"github.com/yash-755/robo/internal/ratelimit"
	"github.com/yash-755/robo/internal/session"
	"github.com/yash-755/robo/internal/storage"
	"github.com/yash-755/robo/internal/tui"
	"github.com/yash-755/robo/pkg/logx"
)

// --- ask ---

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask Robo a single question",
	Long: `Ask Robo a single question.

By default the offline keyword responder answers. With --remote the
question goes to a running server's /api/chat and the model answers.

Examples:
  robo ask "What are Yash's skills?"
  robo ask --remote "Tell me about the Green AI project"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		remote, _ := cmd.Flags().GetBool("remote")
		serverURL, _ := cmd.Flags().GetString("server")
		raw, _ := cmd.Flags().GetBool("raw")
		question := strings.Join(args, " ")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if !remote {
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, a.responder.Respond(question))
			return nil
		}

		answer, err := newAPIClient(cfg, serverURL).chat(cmd.Context(), question)
		if err != nil {
			return err
		}
		if raw {
			fmt.Fprintln(stdout, answer)
			return nil
		}
		fmt.Fprint(stdout, renderMarkdown(answer, 80))
		return nil
	},
}

func init() {
	askCmd.Flags().Bool("remote", false, "ask the model through a running server")
	askCmd.Flags().String("server", "", "server base URL (default: local server on the configured port)")
	askCmd.Flags().Bool("raw", false, "print the remote answer without markdown rendering")
}

// --- chat ---

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the chat widget in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		// The widget owns the terminal.
		logx.Nop()

		a, err := newApp(cfg)
		if err != nil {
			return err
		}

		wake := tui.NewWake()
		sess := session.New(a.responder, a.policy.Welcome(),
			session.WithNotify(wake.Notify),
		)
		defer sess.Close()
		sess.Open()

		styles := tui.DefaultStyles()
		if noColor {
			styles = tui.PlainStyles()
		}
		title := fmt.Sprintf("%s · %s's portfolio assistant", a.policy.Assistant, a.policy.Owner)
		p := tea.NewProgram(tui.New(sess, wake, title, styles), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
		_, err = p.Run()
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	},
}

// --- context / prompt ---

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Print the compiled portfolio context",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("budget") {
			cfg.Context.MaxTokens, _ = cmd.Flags().GetInt("budget")
		}
		a, err := newApp(cfg)
		if err != nil {
			return err
		}

		res := a.compiler.Compile()
		fmt.Fprintln(stdout, res.Text)

		if stats, _ := cmd.Flags().GetBool("stats"); stats {
			printStatus("Tokens", "%d (budget %s)", res.Tokens, budgetLabel(cfg.Context.MaxTokens))
			printStatus("Tokenizer", "%s", cfg.Context.Tokenizer)
			if len(res.Compacted) > 0 {
				printStatus("Compacted", "%s", strings.Join(res.Compacted, ", "))
			}
			if res.Omitted > 0 {
				printStatus("Omitted", "%d entries", res.Omitted)
			}
		}
		return nil
	},
}

func budgetLabel(n int) string {
	if n <= 0 {
		return "unlimited"
	}
	return fmt.Sprintf("%d", n)
}

func init() {
	contextCmd.Flags().Int("budget", composer.DefaultMaxContextTokens, "token budget; <= 0 disables truncation")
	contextCmd.Flags().Bool("stats", false, "print token statistics to stderr")
}

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print the system prompt sent with every chat request",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, a.gateway.SystemPrompt())
		return nil
	},
}

// --- mcp ---

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve Robo's tools over MCP (stdio)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		// stdout belongs to the protocol.
		logx.Nop()

		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		mcpSrv := api.NewMCPServer(api.MCPDeps{
			Responder: a.responder,
			Chat:      a.gateway,
			Store:     a.store,
			Context:   a.contextText,
			Version:   version,
		})
		stdio := server.NewStdioServer(mcpSrv)
		err = stdio.Listen(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("mcp server: %w", err)
		}
		return nil
	},
}

// --- status ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server, upstream and storage status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			printError("config error: %v", err)
			return nil
		}
		serverURL, _ := cmd.Flags().GetString("server")
		showStatus(cmd.Context(), cfg, serverURL)
		return nil
	},
}

func init() {
	statusCmd.Flags().String("server", "", "server base URL (default: local server on the configured port)")
}

const statusTimeout = 5 * time.Second

func showStatus(ctx context.Context, cfg config.Config, serverURL string) {
	client := newAPIClient(cfg, serverURL)
	client.httpClient.Timeout = statusTimeout

	if msg, err := client.health(ctx); err != nil {
		printStatus("Server", "stopped")
	} else {
		printStatus("Server", "%s (%s)", msg, client.baseURL)
	}

	a, err := newApp(cfg)
	if err != nil {
		printStatus("Content", "error: %v", err)
	} else {
		p := a.store.Portfolio()
		printStatus("Content", "%d skills, %d projects, %d certificates, %d hobbies",
			len(p.Skills), len(p.Projects), len(p.Certificates), len(p.Hobbies))
		res := a.compiler.Compile()
		printStatus("Context", "%d tokens (budget %s)", res.Tokens, budgetLabel(cfg.Context.MaxTokens))
	}

	switch {
	case a == nil || a.upstream == nil:
		printStatus("Upstream", "not configured (GROK_API_KEY unset)")
	default:
		upCtx, cancel := context.WithTimeout(ctx, statusTimeout)
		models, err := a.upstream.Models(upCtx)
		cancel()
		if err != nil {
			printStatus("Upstream", "error: %v", err)
		} else {
			printStatus("Upstream", "reachable, %d models (using %s)", len(models), a.upstream.Model())
		}
	}

	if cfg.Redis.URL == "" {
		printStatus("Rate limit", "%s per minute, in memory", budgetLabel(cfg.RateLimit.PerMinute))
	} else if rc, err := ratelimit.Connect(ctx, cfg.Redis.URL, cfg.Redis.DialTimeout); err != nil {
		printStatus("Rate limit", "redis unreachable: %v", err)
	} else {
		rc.Close()
		printStatus("Rate limit", "%s per minute, redis", budgetLabel(cfg.RateLimit.PerMinute))
	}

	if store, err := storage.Open(cfg.Storage.DataDir); err != nil {
		printStatus("Storage", "error: %v", err)
	} else {
		n, err := store.CountFeedback(ctx)
		store.Close()
		if err != nil {
			printStatus("Storage", "error: %v", err)
		} else {
			printStatus("Feedback", "%d entries", n)
		}
	}
	printStatus("Data dir", "%s", cfg.Storage.DataDir)
}

// --- feedback ---

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Inspect visitor feedback",
}

var feedbackListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the most recent feedback",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		local, _ := cmd.Flags().GetBool("local")
		serverURL, _ := cmd.Flags().GetString("server")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		var list []storage.Feedback
		if local {
			store, err := storage.Open(cfg.Storage.DataDir)
			if err != nil {
				return fmt.Errorf("opening storage: %w", err)
			}
			defer store.Close()
			list, err = store.ListFeedback(cmd.Context(), limit)
			if err != nil {
				return err
			}
		} else {
			if cfg.Server.AdminToken == "" {
				return errors.New("SERVER_ADMIN_TOKEN is not set; use --local to read the database directly")
			}
			list, err = newAPIClient(cfg, serverURL).listFeedback(cmd.Context(), limit)
			if err != nil {
				return err
			}
		}

		if len(list) == 0 {
			printWarning("No feedback yet")
			return nil
		}
		printFeedback(list)
		return nil
	},
}

func printFeedback(list []storage.Feedback) {
	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CREATED\tRATING\tFEEDBACK\tID")
	for _, f := range list {
		comment := []rune(strings.ReplaceAll(f.Comment, "\n", " "))
		if len(comment) > 60 {
			comment = append(comment[:57], []rune("...")...)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", f.CreatedAt.Local().Format("2006-01-02 15:04"), stars(f.Rating), string(comment), f.ID)
	}
	w.Flush()
}

func stars(n int) string {
	if n <= 0 {
		return "-"
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

func init() {
	feedbackListCmd.Flags().Int("limit", 20, "maximum number of entries")
	feedbackListCmd.Flags().Bool("local", false, "read the database directly instead of the server API")
	feedbackListCmd.Flags().String("server", "", "server base URL (default: local server on the configured port)")
	feedbackCmd.AddCommand(feedbackListCmd)
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration (secrets masked)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		for _, k := range config.ShowAll(cfg) {
			fmt.Fprintf(stdout, "  %s = %s\n", colorize(labelStyle, k.Key), k.Value)
		}
		for _, w := range cfg.Warnings() {
			printWarning("%s", w)
		}
		return nil
	},
}

var configEnvCmd = &cobra.Command{
	Use:   "env",
	Short: "List every environment variable robo reads",
	RunE: func(cmd *cobra.Command, args []string) error {
		return config.Usage(stdout)
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEnvCmd)
}
