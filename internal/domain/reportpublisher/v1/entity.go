package reportpublisherv1

import (
	"encoding/json"

	orderbookv1 "github.com/yunhanbi/finm250-quant-2025/internal/domain/orderbook/v1"
)

// ReportBatch is the wire form of one publish: every execution report a
// single submit produced, in emission order, so downstream consumers see the
// aggressor leg and its counterparties together.
type ReportBatch struct {
	Symbol  string                        `json:"symbol"`
	Reports []orderbookv1.ExecutionReport `json:"reports"`
}

// ToBytes converts the report batch to a byte array.
func ToBytes(batch *ReportBatch) []byte {
	buf, err := json.Marshal(batch)
	if err != nil {
		return nil
	}

	return buf
}

// FromBytes converts a byte array to a report batch.
func FromBytes(data []byte) *ReportBatch {
	var batch ReportBatch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil
	}
	return &batch
}
