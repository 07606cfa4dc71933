//revive:disable-next-line:var-naming // package name mirrors the domain records it holds
package model

// Batch statuses reported by the backend as a batch moves through the plant.
const (
	BatchStatusReceived  = "RECEIVED"
	BatchStatusProcessed = "PROCESSED"
	BatchStatusStored    = "STORED"
	BatchStatusShipped   = "SHIPPED"
)

// Farmer is a prawn supplier.
type Farmer struct {
	FarmerID  string    `json:"farmer_id"`
	UserID    *string   `json:"user_id,omitempty"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact"`
	Address   string    `json:"address"`
	CreatedAt Timestamp `json:"created_at"`
}

// Linked reports whether a login account is attached to the farmer.
func (f Farmer) Linked() bool { return f.UserID != nil && *f.UserID != "" }

// CreateFarmerRequest represents parameters to register a farmer.
type CreateFarmerRequest struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Address string `json:"address"`
}

// LinkFarmerRequest attaches a login account to a farmer record.
type LinkFarmerRequest struct {
	UserID   string `json:"user_id"`
	FarmerID string `json:"farmer_id"`
}

// Batch is one intake of prawns from a farmer.
type Batch struct {
	BatchID    string    `json:"batch_id"`
	FarmerID   string    `json:"farmer_id"`
	WeightKG   float64   `json:"weight_kg"`
	SizeGrade  string    `json:"size_grade"`
	IntakeDate Timestamp `json:"intake_date"`
	IntakeTime string    `json:"intake_time"`
	Location   string    `json:"location"`
	Status     string    `json:"status"`
	QRCode     string    `json:"qr_code"`
	CreatedAt  Timestamp `json:"created_at"`
}

// CreateBatchRequest represents parameters to record an intake.
type CreateBatchRequest struct {
	FarmerID  string  `json:"farmer_id"`
	WeightKG  float64 `json:"weight_kg"`
	SizeGrade string  `json:"size_grade"`
	Location  string  `json:"location"`
}

// ProcessingStage is one step (peeling, grading, freezing, ...) applied to a batch.
type ProcessingStage struct {
	StageID        string     `json:"stage_id"`
	BatchID        string     `json:"batch_id"`
	StageName      string     `json:"stage_name"`
	AssignedPerson string     `json:"assigned_person"`
	InputWeight    float64    `json:"input_weight"`
	OutputWeight   float64    `json:"output_weight"`
	Wastage        float64    `json:"wastage"`
	Status         string     `json:"status"`
	CreatedAt      Timestamp  `json:"created_at"`
	CompletedAt    *Timestamp `json:"completed_at,omitempty"`
}

// CreateProcessingStageRequest represents parameters to record a stage.
type CreateProcessingStageRequest struct {
	BatchID        string  `json:"batch_id"`
	StageName      string  `json:"stage_name"`
	AssignedPerson string  `json:"assigned_person"`
	InputWeight    float64 `json:"input_weight"`
	OutputWeight   float64 `json:"output_weight"`
}

// InventoryItem is a quantity of a batch held in cold storage.
type InventoryItem struct {
	InventoryID string    `json:"inventory_id"`
	BatchID     string    `json:"batch_id"`
	Location    string    `json:"location"`
	Quantity    float64   `json:"quantity"`
	BatchAge    int       `json:"batch_age"`
	Status      string    `json:"status"`
	CreatedAt   Timestamp `json:"created_at"`
}

// CreateInventoryRequest represents parameters to store part of a batch.
type CreateInventoryRequest struct {
	BatchID  string  `json:"batch_id"`
	Location string  `json:"location"`
	Quantity float64 `json:"quantity"`
}

// Dispatch is a shipment of a batch to a customer.
type Dispatch struct {
	DispatchID   string    `json:"dispatch_id"`
	BatchID      string    `json:"batch_id"`
	CustomerName string    `json:"customer_name"`
	Country      string    `json:"country"`
	SellingPrice float64   `json:"selling_price"`
	DispatchDate Timestamp `json:"dispatch_date"`
	Status       string    `json:"status"`
	CreatedAt    Timestamp `json:"created_at"`
}

// CreateDispatchRequest represents parameters to ship a batch. DispatchDate is a
// calendar day (YYYY-MM-DD) as entered in the form.
type CreateDispatchRequest struct {
	BatchID      string  `json:"batch_id"`
	CustomerName string  `json:"customer_name"`
	Country      string  `json:"country"`
	SellingPrice float64 `json:"selling_price"`
	DispatchDate string  `json:"dispatch_date"`
}
