package backend

// Endpoint is a function name under the backend base path.
type Endpoint string

const DefaultBaseURL = "https://sheeladecor.netlify.app/.netlify/functions/server"

const (
	GetColours    Endpoint = "getPaintsColorData"
	SendColours   Endpoint = "sendPaintsColorData"
	UpdateColours Endpoint = "updatePaintsColorData"
	DeleteColours Endpoint = "deletePaintsColorData"

	GetProjects Endpoint = "getpaintsprojectdata"

	GetLabourers   Endpoint = "getPaintsLabourData"
	SendLabourer   Endpoint = "sendPaintsLabourData"
	UpdateLabourer Endpoint = "updatePaintsLabourData"
	DeleteLabourer Endpoint = "deletePaintsLabourData"

	GetAttendance    Endpoint = "getLabourData"
	SendAttendance   Endpoint = "sendLabourData"
	UpdateAttendance Endpoint = "updateLabourData"
	DeleteAttendance Endpoint = "deleteLabourData"

	GetCompanies  Endpoint = "getPaintsCompany"
	SendCompany   Endpoint = "sendPaintsCompany"
	GetDesigns    Endpoint = "getPaintsDesign"
	GetCatalogues Endpoint = "getcatalogues"
	AddCatalogue  Endpoint = "addcatalogue"
	AddArea       Endpoint = "addPaintsArea"
	DeleteArea    Endpoint = "deletePaintsArea"

	GetItems   Endpoint = "getpaintssingleproducts"
	AddProduct Endpoint = "addpaintsnewproduct"

	GetPayments Endpoint = "getPaintsPayments"
)
