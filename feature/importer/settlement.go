package importer

import (
	"context"
	"strings"
	"time"

	"bling-sync/core/utils"
	"bling-sync/feature/bling"
	"bling-sync/feature/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type settlement struct {
	value     decimal.Decimal
	carrierID *uint
}

// Settle refreshes account id and stores the settlements its bordereaux
// record on day that are not stored yet. It returns how many were created.
func (im *Importer) Settle(ctx context.Context, id string, day time.Time, receivable bool) (int, error) {
	acc, err := im.loadAccount(ctx, id, receivable)
	if err != nil {
		return 0, err
	}
	mapped, err := im.mapAccount(ctx, acc)
	if err != nil {
		return 0, err
	}

	var accountID uint
	if receivable {
		row := &models.Receivable{Account: *mapped}
		if err := im.receivables.Save(ctx, row); err != nil {
			return 0, err
		}
		accountID = row.ID
	} else {
		row := &models.Payable{Account: *mapped}
		if err := im.payables.Save(ctx, row); err != nil {
			return 0, err
		}
		accountID = row.ID
	}

	found, err := im.settlementsOn(ctx, acc, day)
	if err != nil || len(found) == 0 {
		return 0, err
	}
	created, err := im.storeSettlements(ctx, accountID, utils.DateOnly(day), found, receivable)
	if err != nil {
		return 0, err
	}
	if created > 0 {
		im.logger.Info("Settlements created",
			zap.String("account", id),
			zap.Bool("receivable", receivable),
			zap.Int("count", created))
	}
	return created, nil
}

// settlementsOn collects the payments of acc recorded in bordereaux dated
// day. A payment belongs to acc when both document number and contact match.
func (im *Importer) settlementsOn(ctx context.Context, acc *bling.Account, day time.Time) ([]settlement, error) {
	want := utils.FormatDate(day)
	doc := strings.TrimSpace(acc.DocumentNumber)
	delay := time.Duration(im.cfg.BordereauDelayMS) * time.Millisecond

	var out []settlement
	for i, id := range acc.Bordereaux {
		if i > 0 {
			if err := im.sleep(ctx, delay); err != nil {
				return nil, err
			}
		}
		raw, err := im.cache.GetOrFetch(ctx, cacheBordereau, utils.OriginalID(id), func(ctx context.Context) ([]byte, error) {
			return im.api.BordereauPayload(ctx, id)
		})
		if err != nil {
			return nil, err
		}
		b, err := bling.ParseBordereau(raw)
		if err != nil {
			return nil, err
		}
		if !strings.HasPrefix(strings.TrimSpace(b.Date), want) {
			continue
		}

		var (
			carrierID *uint
			resolved  bool
		)
		for _, p := range b.Payments {
			if strings.TrimSpace(p.DocumentNumber) != doc || p.Contact.ID != acc.Contact.ID {
				continue
			}
			if !resolved {
				carrier, err := im.carriers.Resolve(ctx, utils.OriginalID(b.Carrier.ID))
				if err != nil {
					return nil, err
				}
				carrierID = refID(carrier, func(c *models.Carrier) uint { return c.ID })
				resolved = true
			}
			out = append(out, settlement{value: p.Paid, carrierID: carrierID})
		}
	}
	return out, nil
}

// storeSettlements inserts the settlements of day that have no stored
// counterpart with the same value. Equal values are matched one to one.
func (im *Importer) storeSettlements(ctx context.Context, accountID uint, day time.Time, found []settlement, receivable bool) (int, error) {
	created := 0
	err := im.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stored []models.Settlement
		if receivable {
			var rows []models.ReceivableReceipt
			if err := tx.Where("id_conta_receber = ?", accountID).Find(&rows).Error; err != nil {
				return err
			}
			for _, r := range rows {
				stored = append(stored, r.Settlement)
			}
		} else {
			var rows []models.PayablePayment
			if err := tx.Where("id_conta_pagar = ?", accountID).Find(&rows).Error; err != nil {
				return err
			}
			for _, r := range rows {
				stored = append(stored, r.Settlement)
			}
		}

		var taken []decimal.Decimal
		for _, s := range stored {
			if utils.SameDay(s.PaidAt, day) {
				taken = append(taken, s.Value)
			}
		}

		for _, f := range found {
			if i := indexOfValue(taken, f.value); i >= 0 {
				taken = append(taken[:i], taken[i+1:]...)
				continue
			}
			base := models.Settlement{PaidAt: day, CarrierID: f.carrierID, Value: f.value}
			var err error
			if receivable {
				err = tx.Create(&models.ReceivableReceipt{Settlement: base, ReceivableID: accountID}).Error
			} else {
				err = tx.Create(&models.PayablePayment{Settlement: base, PayableID: accountID}).Error
			}
			if err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

func indexOfValue(values []decimal.Decimal, v decimal.Decimal) int {
	for i, x := range values {
		if x.Equal(v) {
			return i
		}
	}
	return -1
}
