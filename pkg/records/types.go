package records

import "encoding/json"

// NotAvailable is shown for a shade submitted without a name.
const NotAvailable = "NA"

// ShadeArea is one [area, shadeName, shadeCode] block of a colour submission.
type ShadeArea struct {
	Area      string `json:"area"`
	ShadeName string `json:"shadeName"`
	ShadeCode string `json:"shadeCode"`
}

// ColourSubmission is one backend colour row: a site, the painted areas and
// the submission date.
type ColourSubmission struct {
	Site  string      `json:"site"`
	Areas []ShadeArea `json:"areas"`
	Date  string      `json:"date"`
}

// ColourEntry is a flattened ShadeArea carrying its submission's site and date.
type ColourEntry struct {
	Site      string `json:"site"`
	Area      string `json:"area"`
	ShadeName string `json:"shadeName"`
	ShadeCode string `json:"shadeCode"`
	Date      string `json:"date"`
}

// Flatten expands submissions into one entry per area, in order.
func Flatten(subs []ColourSubmission) []ColourEntry {
	var out []ColourEntry
	for _, s := range subs {
		for _, a := range s.Areas {
			out = append(out, ColourEntry{Site: s.Site, Area: a.Area, ShadeName: a.ShadeName, ShadeCode: a.ShadeCode, Date: s.Date})
		}
	}
	return out
}

// Project is a decoded project row. Nested fields of unknown shape are kept
// as raw JSON.
type Project struct {
	Name               string          `json:"projectName"`
	CustomerLink       json.RawMessage `json:"customerLink"`
	Reference          string          `json:"projectReference"`
	Status             string          `json:"status"`
	TotalAmount        float64         `json:"totalAmount"`
	TotalTax           float64         `json:"totalTax"`
	Paid               float64         `json:"paid"`
	Discount           float64         `json:"discount"`
	CreatedBy          string          `json:"createdBy"`
	AllData            json.RawMessage `json:"allData"`
	ProjectDate        string          `json:"projectDate"`
	AdditionalRequests json.RawMessage `json:"additionalRequests"`
	Interiors          []string        `json:"interiorArray"`
	SalesAssociates    []string        `json:"salesAssociateArray"`
	AdditionalItems    json.RawMessage `json:"additionalItems"`
	Goods              json.RawMessage `json:"goodsArray"`
	Tailors            json.RawMessage `json:"tailorsArray"`
	Address            string          `json:"projectAddress"`
	Date               string          `json:"date"`
	GrandTotal         float64         `json:"grandTotal"`
	DiscountType       string          `json:"discountType"`
	BankDetails        json.RawMessage `json:"bankDetails"`
	TermsConditions    json.RawMessage `json:"termsConditions"`
	Defaulter          json.RawMessage `json:"defaulter"`
}

// Labourer is a roster row: [name, date, pay].
type Labourer struct {
	Name string  `json:"name"`
	Date string  `json:"date"`
	Pay  float64 `json:"pay"`
}

// Company, Design and Area are single-name master records.
type Company struct {
	Name string `json:"name"`
	Date string `json:"date"`
}

type Design struct {
	Name string `json:"name"`
}

type Area struct {
	Name string `json:"name"`
}

type Catalogue struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Product is a single product row, in the order addpaintsnewproduct stores it.
type Product struct {
	Name           string  `json:"productName"`
	Description    string  `json:"description"`
	GroupType      string  `json:"groupTypes"`
	SellingUnit    string  `json:"sellingUnit"`
	MRP            float64 `json:"mrp"`
	TaxRate        float64 `json:"taxRate"`
	Date           string  `json:"date"`
	NeedsTailoring bool    `json:"needsTailoring"`
}

// Payment is a payments report row: [customer, project, amount, date, mode, remarks].
type Payment struct {
	Customer string  `json:"customer"`
	Project  string  `json:"project"`
	Amount   float64 `json:"amount"`
	Date     string  `json:"date"`
	Mode     string  `json:"mode"`
	Remarks  string  `json:"remarks"`
}
