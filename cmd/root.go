// Package cmd is the portfolio command line: the HTTP server plus one-shot
// queries against a catalog.
//
// Flags left unset fall back to the environment (see package config), so
//
//	CATALOG_SOURCE=s3://portfolio/data.yaml portfolio techniques --stats
//
// and
//
//	portfolio techniques --stats --catalog s3://portfolio/data.yaml
//
// read the same catalog.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/warna720/TDP003/audit"
	"github.com/warna720/TDP003/catalog"
	"github.com/warna720/TDP003/config"
	"github.com/warna720/TDP003/services"
)

// RootOptions holds the global flags and the configuration they override.
type RootOptions struct {
	Catalog   string
	AuditLog  string
	AssetRoot string
	Cache     bool

	Config config.Config
}

// NewRootCommand creates the root command of the portfolio CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "portfolio",
		Short:         "Serve and query a project portfolio catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.Catalog, "catalog", "", "catalog file or s3://bucket/key (default $CATALOG_SOURCE)")
	flags.StringVar(&opts.AuditLog, "audit-log", "", "append-only audit log, \"-\" to disable (default $AUDIT_LOG)")
	flags.StringVar(&opts.AssetRoot, "asset-root", "", "prefix for relative image paths (default $ASSET_ROOT)")
	flags.BoolVar(&opts.Cache, "cache", false, "keep the catalog in memory until the file changes (default $CATALOG_CACHE)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewSearchCommand(opts))
	cmd.AddCommand(NewTechniquesCommand(opts))
	cmd.AddCommand(NewProjectCommand(opts))

	return cmd
}

// Execute runs the CLI with the process arguments.
func Execute() error {
	return NewRootCommand().Execute()
}

// load reads the configuration and fills every flag the user did not set.
func (o *RootOptions) load(cmd *cobra.Command) error {
	c, err := config.Load()
	if err != nil {
		return err
	}
	level, err := c.Level()
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(level)

	flags := cmd.Flags()
	if !flags.Changed("catalog") {
		o.Catalog = c.CatalogSource
	}
	if !flags.Changed("audit-log") {
		o.AuditLog = c.AuditLog
	}
	if !flags.Changed("asset-root") {
		o.AssetRoot = c.AssetRoot
	}
	if !flags.Changed("cache") {
		o.Cache = c.CatalogCache
	}
	o.Config = c
	return nil
}

// openPortfolio wires the audit sink, the loader and the optional cache.
// The returned function releases them.
func (o *RootOptions) openPortfolio(ctx context.Context) (*services.Portfolio, func(), error) {
	var (
		sink    audit.Recorder = audit.Nop()
		closers []io.Closer
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i].Close()
		}
	}

	if o.AuditLog != "" && o.AuditLog != "-" {
		fileSink, closer, err := audit.OpenFile(o.AuditLog)
		if err != nil {
			return nil, nil, err
		}
		sink = fileSink
		closers = append(closers, closer)
	}

	loaderOpts := []catalog.Option{catalog.WithAssetRoot(o.AssetRoot)}
	if catalog.IsRemote(o.Catalog) {
		client, err := o.objectClient(ctx)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		loaderOpts = append(loaderOpts, catalog.WithObjectGetter(client))
	}
	loader := catalog.NewLoader(sink, loaderOpts...)

	var source services.CatalogLoader = loader
	if o.Cache && !catalog.IsRemote(o.Catalog) {
		cache, err := catalog.NewCache(loader, o.Catalog)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		source = cache
		closers = append(closers, cache)
	}

	return services.NewPortfolio(source, o.Catalog, sink), closeAll, nil
}

func (o *RootOptions) objectClient(ctx context.Context) (*s3.Client, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if o.Config.AWSRegion != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(o.Config.AWSRegion))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return s3.NewFromConfig(awsCfg), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
