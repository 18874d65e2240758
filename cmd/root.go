package cmd

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/An00bRektn/htb-cli/api"
	"github.com/An00bRektn/htb-cli/internal/config"
	"github.com/An00bRektn/htb-cli/internal/dispatch"
	"github.com/An00bRektn/htb-cli/internal/logging"
	"github.com/An00bRektn/htb-cli/internal/prompt"
	"github.com/An00bRektn/htb-cli/internal/resource"
	"github.com/An00bRektn/htb-cli/internal/session"
	"github.com/An00bRektn/htb-cli/internal/ui"
)

const (
	Version = "0.2.0"
	tagline = "Hack The Box from the terminal"
)

// app holds what every subcommand shares. It is filled in by the root
// command's pre-run hook.
type app struct {
	v      *viper.Viper
	cfg    *config.Config
	log    *zap.Logger
	out    *ui.Printer
	prompt prompt.Prompter

	dispatcher *dispatch.Dispatcher
}

func newApp(stdout io.Writer, p prompt.Prompter) *app {
	a := &app{
		v:   config.New(),
		log: zap.NewNop(),
		out: ui.New(stdout),
	}
	a.prompt = p
	if a.prompt == nil {
		a.prompt = prompt.NewTerminal(a.out)
	}
	return a
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "htbcli",
		Short: "Work with Hack The Box challenges, machines and VPN servers",
		Long: `htbcli - Hack The Box from the terminal

Look up a challenge or machine, download its files, start or stop its
instance, and submit flags. Switch VPN servers and download config packs.

Examples:
  htbcli challenge -n "Weather App" -p ~/ctf -s
  htbcli machine -n Lame --spawn
  htbcli machine -n 1 -f <flag> -d 20
  htbcli vpn --switch menu --download ~/vpn`,
		Version:           Version,
		SilenceErrors:     true,
		SilenceUsage:      true,
		Args:              cobra.NoArgs,
		PersistentPreRunE: a.setup,
		RunE: func(*cobra.Command, []string) error {
			a.out.Important("No subcommand given, use -h/--help to see what htbcli can do.")
			return nil
		},
	}
	root.SetVersionTemplate("htbcli {{.Version}}\n")

	pf := root.PersistentFlags()
	pf.StringP("cache", "c", "", "path of the credential cache file")
	pf.BoolP("verbose", "v", false, "print the chosen options and debug logs")
	_ = a.v.BindPFlag(config.KeyCache, pf.Lookup("cache"))
	_ = a.v.BindPFlag(config.KeyVerbose, pf.Lookup("verbose"))

	root.AddCommand(a.challengeCmd(), a.machineCmd(), a.vpnCmd())
	return root
}

func (a *app) setup(*cobra.Command, []string) error {
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logging.New(cfg.Verbose)
	a.log.Debug("config loaded",
		zap.String("api_url", cfg.APIURL),
		zap.String("cache", cfg.Cache),
		zap.Duration("timeout", cfg.Timeout),
	)

	a.out.Header(Version, tagline)
	env := resource.Env{Prompt: a.prompt, Out: a.out, Log: a.log}
	a.dispatcher = dispatch.New(a.open, env)
	return nil
}

func (a *app) open(ctx context.Context) (dispatch.Client, error) {
	opts := a.cfg.APIOptions()
	opts.Logger = a.log

	b := session.New(api.NewAuthenticator(opts), a.prompt, a.out, a.log)
	c, err := b.Open(ctx, session.Options{CachePath: a.cfg.Cache, Inline: a.cfg.InlineCredentials})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// summarize prints the verbose option table.
func (a *app) summarize(rows []ui.Row) {
	if !a.cfg.Verbose {
		return
	}
	cache := a.cfg.Cache
	if cache == "" {
		cache = "(none)"
	}
	a.out.Summary(append([]ui.Row{{Key: "Cache", Value: cache}}, rows...))
}

// exitCode reports a fatal error and picks the process exit status.
func (a *app) exitCode(err error) int {
	if err == nil {
		return 0
	}
	a.log.Debug("fatal", zap.Error(err))

	switch {
	case errors.Is(err, api.ErrRateLimited):
		if a.dispatcher == nil || !a.dispatcher.RateLimited() {
			a.out.Important(dispatch.RateLimitNotice)
		}
		return 0
	case errors.Is(err, api.ErrMalformedCache):
		a.out.Error("The cache file is not valid JSON, fix it or delete it and log in again.")
	case errors.Is(err, api.ErrCacheAttribute):
		a.out.Error("The cache file is missing credentials, delete it and log in again.")
	case errors.Is(err, api.ErrCacheIsDirectory):
		a.out.Error("Specified cache file is a directory.")
	case errors.Is(err, session.ErrLogin),
		errors.Is(err, api.ErrUnauthorized),
		errors.Is(err, api.ErrMalformedResponse):
		a.out.Error("Couldn't authenticate: %v", err)
	case errors.Is(err, api.ErrNotFound):
		a.out.Error("Couldn't find it: %v", err)
	default:
		a.out.Error("%v", err)
	}
	a.out.Error("Exiting...")
	return 1
}

// Execute runs the command line and returns the exit status.
func Execute(ctx context.Context) int {
	a := newApp(os.Stdout, nil)
	root := a.rootCmd()
	return a.exitCode(root.ExecuteContext(ctx))
}
