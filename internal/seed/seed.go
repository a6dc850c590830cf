// Package seed loads baseline and factor reference data from CSV files
// into a store.
package seed

import (
	"context"
	"encoding/csv"
	"io"
	"os"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/citycarbon/footprint-cli/internal/model"
	"github.com/citycarbon/footprint-cli/internal/store"
)

// baselineRow is one line of a baselines CSV.
type baselineRow struct {
	Domain    string  `csv:"domain"`
	Item      string  `csv:"item"`
	Subdomain string  `csv:"subdomain"`
	Type      string  `csv:"type"`
	Unit      string  `csv:"unit"`
	Value     float64 `csv:"value"`
}

// factorRow is one line of a parameters CSV.
type factorRow struct {
	Category string  `csv:"category"`
	Key      string  `csv:"key"`
	Value    float64 `csv:"value"`
}

// Baselines reads a baselines CSV and upserts its rows. Rows whose domain
// is not one of the four estimation domains are rejected.
func Baselines(ctx context.Context, st store.Store, r io.Reader) (int, error) {
	dec, err := csvutil.NewDecoder(csv.NewReader(r))
	if err != nil {
		return 0, eris.Wrap(err, "seed: read baseline header")
	}

	valid := make(map[model.Domain]bool)
	for _, d := range model.Domains() {
		valid[d] = true
	}

	var items []model.EmissionItem
	for {
		var row baselineRow
		if err := dec.Decode(&row); err == io.EOF {
			break
		} else if err != nil {
			return 0, eris.Wrap(err, "seed: decode baseline row")
		}
		domain := model.Domain(row.Domain)
		if !valid[domain] {
			return 0, eris.Errorf("seed: unknown domain %q", row.Domain)
		}
		typ := model.ItemType(row.Type)
		if typ != model.TypeAmount && typ != model.TypeIntensity {
			return 0, eris.Errorf("seed: unknown item type %q", row.Type)
		}
		items = append(items, model.EmissionItem{
			Domain:    domain,
			Item:      row.Item,
			Subdomain: row.Subdomain,
			Type:      typ,
			Unit:      row.Unit,
			Value:     row.Value,
		})
	}

	if err := st.UpsertBaselines(ctx, items); err != nil {
		return 0, eris.Wrap(err, "seed: upsert baselines")
	}
	zap.L().Info("seed: baselines loaded", zap.Int("rows", len(items)))
	return len(items), nil
}

// Factors reads a parameters CSV and upserts its rows.
func Factors(ctx context.Context, st store.Store, r io.Reader) (int, error) {
	dec, err := csvutil.NewDecoder(csv.NewReader(r))
	if err != nil {
		return 0, eris.Wrap(err, "seed: read parameter header")
	}

	var factors []model.Factor
	for {
		var row factorRow
		if err := dec.Decode(&row); err == io.EOF {
			break
		} else if err != nil {
			return 0, eris.Wrap(err, "seed: decode parameter row")
		}
		factors = append(factors, model.Factor{
			Category: row.Category,
			Key:      row.Key,
			Value:    row.Value,
		})
	}

	if err := st.UpsertFactors(ctx, factors); err != nil {
		return 0, eris.Wrap(err, "seed: upsert factors")
	}
	zap.L().Info("seed: factors loaded", zap.Int("rows", len(factors)))
	return len(factors), nil
}

// BaselinesFile loads a baselines CSV by path.
func BaselinesFile(ctx context.Context, st store.Store, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, eris.Wrapf(err, "seed: open %s", path)
	}
	defer f.Close()
	return Baselines(ctx, st, f)
}

// FactorsFile loads a parameters CSV by path.
func FactorsFile(ctx context.Context, st store.Store, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, eris.Wrapf(err, "seed: open %s", path)
	}
	defer f.Close()
	return Factors(ctx, st, f)
}
