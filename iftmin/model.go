package iftmin

type address struct {
	Name        string
	Street      string
	City        string
	District    string
	Postal_code string
	Country     string
}

type header struct {
	Sender       string
	Receiver     string
	Doc_number   string
	Message_date string
	Currency     string
}

type parties struct {
	Shipper  address
	Invoicee address
	Node_id  string
}

type shipment struct {
	Total_packages  string
	Consignee       address
	Tracking_number string
	Order_id        string
	Phone           string
	Delivery_date   string
	Weight          string
	Dimensions      string
	Items           []string
}

type summary struct {
	Total_packages  string
	Total_shipments string
}

type Document struct {
	Header    header
	Parties   parties
	Shipments []shipment
	Summary   summary
}

// Имена участников, подставляемые при пустом поле имени в сегменте NAD
type Defaults struct {
	Shipper_name  string
	Invoicee_name string
}
