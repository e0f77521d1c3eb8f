package model

import "time"

type OrderStatus string

const (
	OrderStatusOpen       OrderStatus = "open"
	OrderStatusDispatched OrderStatus = "dispatched"
)

const DeliveryStatusDispatched = "dispatched"

type Supplier struct {
	CreatedAt time.Time `json:"created_at"`
	Phone     *string   `json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	Name      string    `json:"name"`
	// Key is the normalized name rows are deduplicated on.
	Key string `json:"key"`
	ID  int64  `json:"id"`
}

type Customer struct {
	CreatedAt time.Time `json:"created_at"`
	Phone     *string   `json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	Name      string    `json:"name"`
	// Key is the normalized name rows are deduplicated on.
	Key string `json:"key"`
	ID  int64  `json:"id"`
}

// StockBatch is one delivery of logs from a supplier.
type StockBatch struct {
	EntryDate    time.Time `json:"entry_date"`
	CreatedAt    time.Time `json:"created_at"`
	VolumeCFT    *float64  `json:"volume_cft,omitempty"`
	DateStr      *string   `json:"date_str,omitempty"`
	SupplierName string    `json:"supplier_name,omitempty"`
	ID           int64     `json:"id"`
	SupplierID   int64     `json:"supplier_id"`
	QtyLogs      int       `json:"qty_logs"`
}

// ProductionRun records sawn pieces cut from a stock batch.
type ProductionRun struct {
	EntryDate   time.Time `json:"entry_date"`
	CreatedAt   time.Time `json:"created_at"`
	LengthMM    *float64  `json:"length_mm,omitempty"`
	DateStr     *string   `json:"date_str,omitempty"`
	ID          int64     `json:"id"`
	BatchID     int64     `json:"batch_id"`
	ThicknessMM float64   `json:"thickness_mm"`
	WidthMM     float64   `json:"width_mm"`
	Qty         int       `json:"qty"`
}

type Order struct {
	EntryDate  time.Time   `json:"entry_date"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	DateStr    *string     `json:"date_str,omitempty"`
	Status     OrderStatus `json:"status"`
	ID         int64       `json:"id"`
	CustomerID int64       `json:"customer_id"`
}

type OrderItem struct {
	SizeLabel   *string  `json:"size_label,omitempty"`
	ThicknessMM *float64 `json:"thickness_mm,omitempty"`
	WidthMM     *float64 `json:"width_mm,omitempty"`
	LengthMM    *float64 `json:"length_mm,omitempty"`
	ID          int64    `json:"id"`
	OrderID     int64    `json:"order_id"`
	Qty         int      `json:"qty"`
}

type Delivery struct {
	EntryDate   time.Time `json:"entry_date"`
	CreatedAt   time.Time `json:"created_at"`
	DateStr     *string   `json:"date_str,omitempty"`
	LorryNumber string    `json:"lorry_number"`
	Status      string    `json:"status"`
	ID          int64     `json:"id"`
	OrderID     int64     `json:"order_id"`
}

type Payment struct {
	EntryDate time.Time `json:"entry_date"`
	CreatedAt time.Time `json:"created_at"`
	Method    *string   `json:"method,omitempty"`
	DateStr   *string   `json:"date_str,omitempty"`
	ID        int64     `json:"id"`
	OrderID   int64     `json:"order_id"`
	Amount    float64   `json:"amount"`
}

// LedgerSummary aggregates ledger activity between two dates, both inclusive.
type LedgerSummary struct {
	From           time.Time `json:"from"`
	To             time.Time `json:"to"`
	Batches        int64     `json:"batches"`
	LogsIn         int64     `json:"logs_in"`
	VolumeCFT      float64   `json:"volume_cft"`
	ProductionRuns int64     `json:"production_runs"`
	PiecesProduced int64     `json:"pieces_produced"`
	Orders         int64     `json:"orders"`
	PiecesOrdered  int64     `json:"pieces_ordered"`
	Deliveries     int64     `json:"deliveries"`
	Payments       int64     `json:"payments"`
	AmountReceived float64   `json:"amount_received"`
}
