package core

import "time"

// AdRecord is one competitor ad as read from the input dataset.
type AdRecord struct {
	Text      string    `json:"text"`       // Ad_Copy column
	StartDate time.Time `json:"start_date"` // Start_Date column, date only
}

// RankedAd is an AdRecord annotated with how long it has been running.
// ActiveDays is negative for ads scheduled to start after the reference date.
type RankedAd struct {
	AdRecord
	ActiveDays int `json:"active_days"`
}

// Product describes the brand the generated ads are written for.
// It is embedded verbatim into both prompt templates.
type Product struct {
	Brand       string `json:"brand" yaml:"brand"`
	Category    string `json:"category" yaml:"category"`
	CoreMessage string `json:"core_message" yaml:"core_message"`
}

// DefaultProduct returns the product profile used when none is configured.
func DefaultProduct() Product {
	return Product{
		Brand:       "Ventamin",
		Category:    "wellness",
		CoreMessage: DefaultCoreMessage,
	}
}

// DefaultCoreMessage is the product description handed to the ad generation stage.
const DefaultCoreMessage = `Discover the secret to glowing skin with Ventamin — your ultimate oral skincare solution. Our expert-curated products harness potent ingredients backed by science for real results. Clinically proven and rigorously tested, Ventamin offers clean, natural solutions for your health goals — especially tackling acne from within.`
