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

	com "github.com/citizenwallet/governance/internal/common"
	"github.com/citizenwallet/governance/internal/config"
	"github.com/citizenwallet/governance/internal/logger"
	"github.com/citizenwallet/governance/internal/metrics"
	"github.com/citizenwallet/governance/internal/services/ethrequest"
	"github.com/citizenwallet/governance/internal/services/webhook"
	"github.com/citizenwallet/governance/pkg/deploy"
	"github.com/citizenwallet/governance/pkg/governance"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/getsentry/sentry-go"
)

const (
	variantA = "a"
	variantB = "b"
)

func main() {
	log.Default().Println("launching governance deployment...")

	env := flag.String("env", "", "path to .env file")

	variant := flag.String("variant", variantB, "deployment variant: a (token + GovernanceProtocolV2) or b (GovernanceProtocol)")

	verify := flag.Bool("verify", false, "read back the variant a configuration after deploying")

	defaults := deploy.DefaultVariantAParams()

	name := flag.String("name", defaults.TokenName, "variant a: token name")

	symbol := flag.String("symbol", defaults.TokenSymbol, "variant a: token symbol")

	quorum := flag.Uint64("quorum", defaults.QuorumThreshold, "variant a: quorum threshold in basis points")

	delay := flag.Uint64("delay", defaults.VotingDelay, "variant a: voting delay in seconds")

	period := flag.Uint64("period", defaults.VotingPeriod, "variant a: voting period in seconds")

	threshold := flag.String("threshold", defaults.ProposalThreshold.String(), "variant a: proposal threshold in wei (decimal or 0x hex)")

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

	pt, err := com.ParseBigInt(*threshold)
	if err != nil {
		log.Fatal(err)
	}

	p := deploy.VariantAParams{
		TokenName:         *name,
		TokenSymbol:       *symbol,
		QuorumThreshold:   *quorum,
		VotingDelay:       *delay,
		VotingPeriod:      *period,
		ProposalThreshold: pt,
	}

	governor, err := run(ctx, conf, *variant, p, *verify, lggr.Named("deploy"))
	if err != nil {
		lggr.Errorw("deployment failed", "variant", *variant, "error", err)

		sentry.CaptureException(err)
		sentry.Flush(2 * time.Second)

		if nerr := w.NotifyError(context.Background(), err); nerr != nil {
			lggr.Warnw("webhook", "error", nerr)
		}

		os.Exit(1)
	}

	if nerr := w.Notify(ctx, fmt.Sprintf("governance variant %s deployed at %s", *variant, com.ShortHex(governor, 4))); nerr != nil {
		lggr.Warnw("webhook", "error", nerr)
	}

	sentry.Flush(2 * time.Second)
}

// run deploys the variant and returns the governance contract address
func run(ctx context.Context, conf *config.Config, variant string, p deploy.VariantAParams, verify bool, lggr logger.Logger) (string, error) {
	if variant != variantA && variant != variantB {
		return "", fmt.Errorf("unsupported variant %q (must be one of: a, b)", variant)
	}

	key, err := conf.Key()
	if err != nil {
		return "", err
	}

	evm, err := ethrequest.NewEthService(ctx, conf.RPCURL)
	if err != nil {
		return "", err
	}
	defer evm.Close()

	evm.SetTxTimeout(conf.TxTimeout)

	chid, err := evm.ChainID()
	if err != nil {
		return "", err
	}

	auth, err := bind.NewKeyedTransactorWithChainID(key, chid)
	if err != nil {
		return "", err
	}

	d := deploy.New(evm, auth, conf.ArtifactsDir, governance.NetworkName(conf.Network, chid),
		deploy.WithLogger(lggr),
		deploy.WithMetrics(metrics.Governance()),
	)

	if variant == variantB {
		out, err := d.VariantB(ctx)
		if err != nil {
			return "", err
		}

		err = out.Save(conf.DeploymentsPath)
		if err != nil {
			return "", err
		}

		lggr.Infow("deployments saved", "path", conf.DeploymentsPath, "contracts", out.Contracts)
		return out.Contracts[deploy.GovernanceProtocol], nil
	}

	s, err := d.VariantA(ctx, p)
	if err != nil {
		return "", err
	}

	err = s.Save(conf.DeploymentConfigPath)
	if err != nil {
		return "", err
	}

	lggr.Infow("deployment config saved",
		"path", conf.DeploymentConfigPath,
		"governance", s.Governance,
		"token", s.GovernanceToken,
		"owner", s.Owner,
	)

	if !verify {
		return s.Governance, nil
	}

	err = deploy.Verify(ctx, evm.Backend(), s, p)
	if err != nil {
		return "", err
	}

	lggr.Infow("deployment verified", "governance", s.Governance)

	return s.Governance, nil
}
