package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Migrate copies every report and proposal record of this archive into dst.
// Reports already present in dst are skipped and proposals are upserted, so a migration can be rerun.
func (d *DB) Migrate(ctx context.Context, dst *DB) (int, int, error) {
	if d.ChainID().Cmp(dst.ChainID()) != 0 {
		return 0, 0, fmt.Errorf("chain id mismatch: %s != %s", d.ChainID(), dst.ChainID())
	}

	entries, err := d.ReportDB.AllReports(ctx)
	if err != nil {
		return 0, 0, err
	}

	reports := 0
	for _, e := range entries {
		_, err := dst.ReportDB.GetReport(ctx, e.RunID)
		if err == nil {
			continue
		}

		if !errors.Is(err, sql.ErrNoRows) {
			return reports, 0, err
		}

		err = dst.SaveReport(ctx, e)
		if err != nil {
			return reports, 0, fmt.Errorf("report %s: %w", e.RunID, err)
		}

		reports++
	}

	recs, err := d.ProposalDB.AllProposals(ctx)
	if err != nil {
		return reports, 0, err
	}

	for i, rec := range recs {
		err = dst.SaveProposal(ctx, rec)
		if err != nil {
			return reports, i, fmt.Errorf("proposal %s: %w", rec.RunID, err)
		}
	}

	return reports, len(recs), nil
}
