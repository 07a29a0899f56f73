package decode

import (
	"github.com/sheeladecor/paintsadmin/pkg/records"
	"github.com/tidwall/gjson"
)

// ColourSubmissions reads [siteName, areaCollection, date] rows.
func ColourSubmissions(rows []gjson.Result) []records.ColourSubmission {
	out := make([]records.ColourSubmission, 0, len(rows))
	for _, row := range rows {
		out = append(out, records.ColourSubmission{
			Site:  String(row.Get("0")),
			Areas: Shades(String(row.Get("1"))),
			Date:  String(row.Get("2")),
		})
	}
	return out
}

// Projects reads the 24-column project rows. Rows that are not arrays are
// skipped.
func Projects(rows []gjson.Result) []records.Project {
	out := make([]records.Project, 0, len(rows))
	for _, row := range rows {
		if !row.IsArray() {
			continue
		}
		col := row.Array()
		get := func(i int) gjson.Result {
			if i < len(col) {
				return col[i]
			}
			return gjson.Result{}
		}
		out = append(out, records.Project{
			Name:               String(get(0)),
			CustomerLink:       ParseSafely(get(1), "[]"),
			Reference:          String(get(2)),
			Status:             String(get(3)),
			TotalAmount:        Number(get(4)),
			TotalTax:           Number(get(5)),
			Paid:               Number(get(6)),
			Discount:           Number(get(7)),
			CreatedBy:          String(get(8)),
			AllData:            ParseSafely(get(9), "[]"),
			ProjectDate:        String(get(10)),
			AdditionalRequests: ParseSafely(get(11), "[]"),
			Interiors:          LenientList(get(12)),
			SalesAssociates:    LenientList(get(13)),
			AdditionalItems:    ParseSafely(get(14), "[]"),
			Goods:              ParseSafely(get(15), "[]"),
			Tailors:            ParseSafely(get(16), "[]"),
			Address:            String(get(17)),
			Date:               String(get(18)),
			GrandTotal:         Number(get(19)),
			DiscountType:       String(get(20)),
			BankDetails:        ParseSafely(get(21), "[]"),
			TermsConditions:    ParseSafely(get(22), "[]"),
			Defaulter:          Raw(get(23)),
		})
	}
	return out
}

// Labourers reads [name, date, pay] rows.
func Labourers(rows []gjson.Result) []records.Labourer {
	out := make([]records.Labourer, 0, len(rows))
	for _, row := range rows {
		out = append(out, records.Labourer{
			Name: String(row.Get("0")),
			Date: String(row.Get("1")),
			Pay:  Number(row.Get("2")),
		})
	}
	return out
}

// AttendanceDays reads [date, siteName, labours] rows.
func AttendanceDays(rows []gjson.Result) []records.AttendanceDay {
	out := make([]records.AttendanceDay, 0, len(rows))
	for _, row := range rows {
		out = append(out, records.AttendanceDay{
			Date:    String(row.Get("0")),
			Site:    String(row.Get("1")),
			Records: Attendance(String(row.Get("2"))),
		})
	}
	return out
}

func Companies(rows []gjson.Result) []records.Company {
	out := make([]records.Company, 0, len(rows))
	for _, row := range rows {
		out = append(out, records.Company{Name: String(row.Get("0")), Date: String(row.Get("1"))})
	}
	return out
}

func Designs(rows []gjson.Result) []records.Design {
	out := make([]records.Design, 0, len(rows))
	for _, row := range rows {
		out = append(out, records.Design{Name: String(row.Get("0"))})
	}
	return out
}

func Catalogues(rows []gjson.Result) []records.Catalogue {
	out := make([]records.Catalogue, 0, len(rows))
	for _, row := range rows {
		out = append(out, records.Catalogue{Name: String(row.Get("0")), Description: String(row.Get("1"))})
	}
	return out
}

// Products reads single product rows. needsTailoring may be a bool or the
// string "true".
func Products(rows []gjson.Result) []records.Product {
	out := make([]records.Product, 0, len(rows))
	for _, row := range rows {
		tailoring := row.Get("7")
		out = append(out, records.Product{
			Name:           String(row.Get("0")),
			Description:    String(row.Get("1")),
			GroupType:      String(row.Get("2")),
			SellingUnit:    String(row.Get("3")),
			MRP:            Number(row.Get("4")),
			TaxRate:        Number(row.Get("5")),
			Date:           String(row.Get("6")),
			NeedsTailoring: tailoring.Type == gjson.True || (tailoring.Type == gjson.String && tailoring.Str == "true"),
		})
	}
	return out
}

// Payments reads [customer, project, amount, date, mode, remarks] rows.
func Payments(rows []gjson.Result) []records.Payment {
	out := make([]records.Payment, 0, len(rows))
	for _, row := range rows {
		out = append(out, records.Payment{
			Customer: String(row.Get("0")),
			Project:  String(row.Get("1")),
			Amount:   Number(row.Get("2")),
			Date:     String(row.Get("3")),
			Mode:     String(row.Get("4")),
			Remarks:  String(row.Get("5")),
		})
	}
	return out
}
