package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/citizenwallet/governance/internal/config"
	"github.com/citizenwallet/governance/internal/logger"
	"github.com/citizenwallet/governance/internal/metrics"
	"github.com/citizenwallet/governance/internal/services/db"
	"github.com/citizenwallet/governance/internal/services/ethrequest"
	"github.com/citizenwallet/governance/internal/services/webhook"
	"github.com/citizenwallet/governance/pkg/deploy"
	"github.com/citizenwallet/governance/pkg/governance"
	"github.com/citizenwallet/governance/pkg/report"
	"github.com/ethereum/go-ethereum/common"
	"github.com/getsentry/sentry-go"
)

const kindAll = "all"

func main() {
	log.Default().Println("launching governance report...")

	env := flag.String("env", "", "path to .env file")

	kind := flag.String("kind", kindAll, "report kind to generate, or all")

	rules := flag.String("rules", "", "path to a yaml file of rule threshold overrides (default: RULES_PATH)")

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conf, err := config.New(ctx, *env)
	if err != nil {
		log.Fatal(err)
	}

	lggr, err := logger.New(logger.Config{Level: conf.LogLevel, File: conf.LogFile})
	if err != nil {
		log.Fatal(err)
	}
	defer lggr.Sync()

	if conf.SentryURL != "" && conf.SentryURL != "x" {
		err = sentry.Init(sentry.ClientOptions{
			Dsn:              conf.SentryURL,
			TracesSampleRate: 1.0,
		})
		if err != nil {
			log.Fatalf("sentry.Init: %s", err)
		}
	}

	if *rules != "" {
		conf.RulesPath = *rules
	}

	err = run(ctx, conf, *kind, lggr.Named("report"))
	if err != nil {
		lggr.Errorw("report failed", "kind", *kind, "error", err)

		sentry.CaptureException(err)
		sentry.Flush(2 * time.Second)

		w := webhook.NewMessager(conf.DiscordURL, governance.NetworkName(conf.Network, nil), true)
		if nerr := w.NotifyError(context.Background(), err); nerr != nil {
			lggr.Warnw("webhook", "error", nerr)
		}

		os.Exit(1)
	}

	sentry.Flush(2 * time.Second)
}

func run(ctx context.Context, conf *config.Config, kind string, lggr logger.Logger) error {
	catalog := report.Definitions()

	// fail before touching the network
	if kind != kindAll {
		if _, err := catalog.Get(kind); err != nil {
			return err
		}
	}

	govAddr, err := deploy.ResolveGovernance(conf.GovernanceAddress, conf.DeploymentConfigPath, conf.DeploymentsPath)
	if err != nil {
		return err
	}

	evm, err := ethrequest.NewEthService(ctx, conf.RPCURL)
	if err != nil {
		return err
	}
	defer evm.Close()

	chid, err := evm.ChainID()
	if err != nil {
		return err
	}

	opts := []report.Option{
		report.WithChainID(chid.Int64()),
		report.WithCatalog(catalog),
		report.WithMetrics(metrics.Governance()),
		report.WithLogger(lggr),
	}

	if common.IsHexAddress(conf.TokenAddress) {
		opts = append(opts, report.WithToken(common.HexToAddress(conf.TokenAddress)))
	}

	if conf.RulesPath != "" {
		o, err := report.LoadOverrides(conf.RulesPath, catalog)
		if err != nil {
			return err
		}

		opts = append(opts, report.WithOverrides(o))
	}

	if conf.DB.Enabled() {
		archive, err := db.NewDB(chid, conf.DB)
		if err != nil {
			return err
		}
		defer archive.Close()

		opts = append(opts, report.WithArchive(archive))
	}

	lggr.Infow("governance", "address", govAddr.Hex(), "chain_id", chid.String())

	gen := report.New(govAddr, evm.Backend(), conf.ReportsDir, opts...)

	if kind == kindAll {
		_, err = gen.GenerateAll(ctx)
		return err
	}

	_, err = gen.Generate(ctx, kind)
	return err
}
