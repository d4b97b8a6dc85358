package l2db

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/sat20-labs/l2asset/common"
	"gorm.io/gorm"
)

// Sequence hands out bip44 derivation pairs from a durable counter. The
// increment is a single atomic statement, so a value is never reissued
// across goroutines or processes.
type Sequence struct {
	db   *gorm.DB
	name string
}

func NewSequence(db *gorm.DB) *Sequence {
	return &Sequence{db: db, name: DERIVATION_SEQUENCE_NAME}
}

func (p *Sequence) NextAccountAndAddress(ctx context.Context) (common.DerivationValues, error) {
	var value int64
	res := p.db.WithContext(ctx).
		Raw("UPDATE l2_bip44_sequence SET value = value + 1 WHERE name = ? RETURNING value", p.name).
		Scan(&value)
	if res.Error != nil {
		return common.DerivationValues{}, errors.Wrap(res.Error, "advance derivation sequence")
	}
	if res.RowsAffected == 0 {
		return common.DerivationValues{}, fmt.Errorf("derivation sequence %s is missing", p.name)
	}
	return common.NewDerivationValues(uint64(value)), nil
}
