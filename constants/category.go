package constants

import (
	"strings"
)

// Bucket is a named slot on the profit-and-loss statement. Ledger categories
// are free text; reporting folds them into these fixed buckets.
type Bucket string

const (
	// revenue buckets
	BucketBilletterie   Bucket = "billetterie"
	BucketBar           Bucket = "bar"
	BucketMerchandising Bucket = "merchandising"
	BucketSubventions   Bucket = "subventions"
	BucketAdhesions     Bucket = "adhesions"

	// expense buckets
	BucketCachets       Bucket = "cachets"
	BucketLocation      Bucket = "location"
	BucketTechnique     Bucket = "technique"
	BucketCommunication Bucket = "communication"
	BucketSalaires      Bucket = "salaires"
	BucketCharges       Bucket = "charges"

	// catch-all on both sides
	BucketAutres Bucket = "autres"
)

// RevenueBuckets lists the named revenue slots, presentation order.
var RevenueBuckets = []Bucket{
	BucketBilletterie,
	BucketBar,
	BucketMerchandising,
	BucketSubventions,
	BucketAdhesions,
	BucketAutres,
}

// ExpenseBuckets lists the named expense slots, presentation order.
var ExpenseBuckets = []Bucket{
	BucketCachets,
	BucketLocation,
	BucketTechnique,
	BucketCommunication,
	BucketSalaires,
	BucketCharges,
	BucketAutres,
}

// CanonicalizeBucket maps a free-text ledger category onto a bucket. Any
// category that matches no named bucket falls into "autres".
func CanonicalizeBucket(category string) Bucket {
	if category == "" {
		return BucketAutres
	}

	normalized := strings.ToLower(strings.TrimSpace(category))

	// synonyms map
	synonyms := map[string]Bucket{
		"billets":       BucketBilletterie,
		"ticketing":     BucketBilletterie,
		"entrees":       BucketBilletterie,
		"buvette":       BucketBar,
		"merch":         BucketMerchandising,
		"subvention":    BucketSubventions,
		"adhesion":      BucketAdhesions,
		"cotisations":   BucketAdhesions,
		"cachet":        BucketCachets,
		"artistes":      BucketCachets,
		"salle":         BucketLocation,
		"sono":          BucketTechnique,
		"son":           BucketTechnique,
		"lumiere":       BucketTechnique,
		"communication": BucketCommunication,
		"com":           BucketCommunication,
		"affiches":      BucketCommunication,
		"salaire":       BucketSalaires,
		"paie":          BucketSalaires,
		"charge":        BucketCharges,
		"assurance":     BucketCharges,
		"banque":        BucketCharges,
	}

	if b, ok := synonyms[normalized]; ok {
		return b
	}

	for _, b := range RevenueBuckets {
		if normalized == string(b) {
			return b
		}
	}
	for _, b := range ExpenseBuckets {
		if normalized == string(b) {
			return b
		}
	}

	return BucketAutres
}
