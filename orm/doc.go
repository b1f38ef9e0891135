/*
Package orm provides an easy to use db wrapper.

State space is broken into prefixed sections called buckets. Each bucket
contains only one type of model, stored under its primary key, and may
possess secondary indexes (unique or 1:N). Secondary indexes are kept up to
date on every Put and Delete and can be used for lookups and queries.

	b := orm.NewModelBucket("escrow", &Escrow{},
		orm.WithIndex("maker", makerIndexer, false),
	)
	if _, err := b.Put(db, key, &escrow); err != nil {
		return err
	}
	var found []Escrow
	_, err := b.ByIndex(db, "maker", maker, &found)
*/
package orm
