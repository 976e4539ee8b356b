package main

import (
	"context"
	"flag"
	"fmt"
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
	"github.com/citizenwallet/governance/pkg/lifecycle"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/getsentry/sentry-go"
)

func main() {
	log.Default().Println("launching governance smoke test...")

	env := flag.String("env", "", "path to .env file")

	deployments := flag.String("deployments", "", "path to deployments.json (default: DEPLOYMENTS_PATH)")

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

	w := webhook.NewMessager(conf.DiscordURL, governance.NetworkName(conf.Network, nil), true)

	path := conf.DeploymentsPath
	if *deployments != "" {
		path = *deployments
	}

	err = run(ctx, conf, path, w, lggr.Named("smoke"))
	if err != nil {
		lggr.Errorw("smoke test failed", "error", err)

		sentry.CaptureException(err)
		sentry.Flush(2 * time.Second)

		if nerr := w.NotifyError(context.Background(), err); nerr != nil {
			lggr.Warnw("webhook", "error", nerr)
		}

		os.Exit(1)
	}

	sentry.Flush(2 * time.Second)
}

func run(ctx context.Context, conf *config.Config, deploymentsPath string, w governance.WebhookMessager, lggr logger.Logger) error {
	d, err := deploy.ReadDeployments(deploymentsPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", deploymentsPath, err)
	}

	govAddr, err := d.Governor()
	if err != nil {
		return err
	}

	key, err := conf.Key()
	if err != nil {
		return err
	}

	evm, err := ethrequest.NewEthService(ctx, conf.RPCURL)
	if err != nil {
		return err
	}
	defer evm.Close()

	evm.SetTxTimeout(conf.TxTimeout)

	chid, err := evm.ChainID()
	if err != nil {
		return err
	}

	auth, err := bind.NewKeyedTransactorWithChainID(key, chid)
	if err != nil {
		return err
	}

	gov, err := governance.NewProtocol(govAddr, evm.Backend())
	if err != nil {
		return err
	}

	opts := []lifecycle.Option{
		lifecycle.WithLogger(lggr),
		lifecycle.WithMetrics(metrics.Governance()),
	}

	network := governance.NetworkName(conf.Network, chid)

	if governance.IsLocalNetwork(conf.Network, chid) {
		opts = append(opts, lifecycle.WithAdvancer(evm))
	} else {
		lggr.Warnw("not a local network, time will not be advanced", "network", network, "chain_id", chid.String())

		if nerr := w.NotifyWarning(ctx, fmt.Errorf("smoke test on %s runs without time advancement", network)); nerr != nil {
			lggr.Warnw("webhook", "error", nerr)
		}
	}

	if conf.DB.Enabled() {
		archive, err := db.NewDB(chid, conf.DB)
		if err != nil {
			return err
		}
		defer archive.Close()

		opts = append(opts, lifecycle.WithRecorder(archive))
	}

	lggr.Infow("governance", "address", govAddr.Hex(), "proposer", auth.From.Hex(), "chain_id", chid.String())

	started, err := evm.BlockTime(nil)
	if err != nil {
		return err
	}

	res, err := lifecycle.New(gov, auth, evm.WaitForTx, opts...).Run(ctx, lifecycle.NoopParams(auth.From))
	if err != nil {
		return err
	}

	finished, err := evm.BlockTime(nil)
	if err != nil {
		return err
	}

	for _, s := range res.Steps {
		names := make([]string, 0, len(s.Events))
		for _, e := range s.Events {
			names = append(names, e.Name)
		}

		lggr.Infow(string(s.Step), "tx", s.TxHash, "block", s.BlockNumber, "events", names)
	}

	lggr.Infow("proposal lifecycle complete", "run_id", res.RunID, "proposal_id", res.ProposalID.String(), "chain_seconds", finished-started)

	return nil
}
