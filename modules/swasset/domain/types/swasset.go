package types

import "github.com/hanbitworks/backoffice/pkg/localid"

// SWAsset is one software asset record.
type SWAsset struct {
	ID               string `json:"sw_asset_id"`
	Code             string `json:"code"`
	Name             string `json:"name"`
	Category         string `json:"category"`
	SolutionProvider string `json:"solution_provider"`
	LicenseType      string `json:"license_type"`
	Seats            string `json:"seats"`
	RegisteredDate   string `json:"registered_date"`
	Status           string `json:"status"`
}

// PurchaseItem is one purchase-history entry of a software asset.
type PurchaseItem struct {
	ID           localid.ID `json:"purchase_id"`
	SWAssetID    string     `json:"sw_asset_id"`
	PurchaseDate string     `json:"purchase_date"`
	Quantity     string     `json:"quantity"`
	Amount       string     `json:"amount"`
	Note         string     `json:"note"`
}

func (i PurchaseItem) ItemID() localid.ID { return i.ID }
