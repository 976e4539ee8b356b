package main

import (
	"context"
	"errors"
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
	"github.com/citizenwallet/governance/pkg/deploy"
	"github.com/citizenwallet/governance/pkg/report"
	"github.com/citizenwallet/governance/pkg/router"
	"github.com/ethereum/go-ethereum/common"
	"github.com/getsentry/sentry-go"
)

var ErrArchiveRequired = errors.New("the report api needs DB_DRIVER to be set")

func main() {
	log.Default().Println("launching governance report api...")

	env := flag.String("env", "", "path to .env file")

	port := flag.Int("port", 3000, "port to listen on")

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
		// Flush buffered events before the program terminates.
		defer sentry.Flush(2 * time.Second)
	}

	err = run(ctx, conf, *port, lggr)
	if err != nil {
		lggr.Errorw("server stopped", "error", err)
		sentry.CaptureException(err)
		sentry.Flush(2 * time.Second)
		os.Exit(1)
	}
}

func run(ctx context.Context, conf *config.Config, port int, lggr logger.Logger) error {
	if !conf.DB.Enabled() {
		return ErrArchiveRequired
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

	lggr.Infow("starting archive", "driver", conf.DB.Driver, "chain_id", chid.String())

	d, err := db.NewDB(chid, conf.DB)
	if err != nil {
		return err
	}
	defer d.Close()

	opts := []report.Option{
		report.WithChainID(chid.Int64()),
		report.WithArchive(d),
		report.WithMetrics(metrics.Governance()),
		report.WithLogger(lggr.Named("report")),
	}

	if common.IsHexAddress(conf.TokenAddress) {
		opts = append(opts, report.WithToken(common.HexToAddress(conf.TokenAddress)))
	}

	if conf.RulesPath != "" {
		o, err := report.LoadOverrides(conf.RulesPath, report.Definitions())
		if err != nil {
			return err
		}

		opts = append(opts, report.WithOverrides(o))
	}

	gen := report.New(govAddr, evm.Backend(), conf.ReportsDir, opts...)

	var operator common.Address
	if common.IsHexAddress(conf.OperatorAddress) {
		operator = common.HexToAddress(conf.OperatorAddress)
	} else {
		lggr.Warnw("OPERATOR_ADDRESS not set, on demand report generation is disabled")
	}

	return router.NewServer(operator, d, gen, lggr.Named("api")).Start(ctx, port)
}
