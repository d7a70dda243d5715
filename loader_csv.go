package eurailnet

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ConnectionRecord is one raw ingestion row, all fields as strings exactly
// as they appear in the source table.
type ConnectionRecord struct {
	RouteID         string `validate:"required"`
	DepartureCity   string `validate:"required"`
	ArrivalCity     string `validate:"required"`
	DepartureTime   string `validate:"required"`
	ArrivalTime     string `validate:"required"`
	TrainType       string `validate:"required"`
	DaysOfOperation string `validate:"required"`
	FirstClassFare  string `validate:"required"`
	SecondClassFare string `validate:"required"`
}

var connectionColumns = []string{
	"route_id", "departure_city", "arrival_city", "departure_time",
	"arrival_time", "train_type", "days_of_operation",
	"first_class_eur", "second_class_eur",
}

// Source tables name the fare columns after the printed ticket rate.
var columnAliases = map[string]string{
	"first_class_ticket_rate_(in_euro)":  "first_class_eur",
	"second_class_ticket_rate_(in_euro)": "second_class_eur",
}

func canonicalColumn(h string) string {
	c := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")
	if alias, ok := columnAliases[c]; ok {
		return alias
	}
	return c
}

// ReadConnectionsCSV reads a connection table from disk. Header names are
// matched case-insensitively after snake-casing, with the fare-rate aliases
// applied; all cells are trimmed.
func ReadConnectionsCSV(path string) ([]ConnectionRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, &FormatError{Msg: fmt.Sprintf("reading %s: %v", path, err)}
	}
	if len(rows) == 0 {
		return nil, &FormatError{Msg: fmt.Sprintf("%s: empty table", path)}
	}

	head := rows[0]
	if len(head) > 0 {
		head[0] = strings.TrimPrefix(head[0], "\uFEFF")
	}
	colIdx := map[string]int{}
	for i, h := range head {
		colIdx[canonicalColumn(h)] = i
	}
	idx := func(col string) int {
		if i, ok := colIdx[col]; ok {
			return i
		}
		return -1
	}
	var missing []string
	for _, col := range connectionColumns {
		if idx(col) < 0 {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &FormatError{Msg: fmt.Sprintf("missing columns %v, found %v", missing, head)}
	}

	cell := func(row []string, col string) string {
		i := idx(col)
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	records := make([]ConnectionRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, ConnectionRecord{
			RouteID:         cell(row, "route_id"),
			DepartureCity:   cell(row, "departure_city"),
			ArrivalCity:     cell(row, "arrival_city"),
			DepartureTime:   cell(row, "departure_time"),
			ArrivalTime:     cell(row, "arrival_time"),
			TrainType:       cell(row, "train_type"),
			DaysOfOperation: cell(row, "days_of_operation"),
			FirstClassFare:  cell(row, "first_class_eur"),
			SecondClassFare: cell(row, "second_class_eur"),
		})
	}
	return records, nil
}

// BuildNetwork ingests raw records into a fresh RailNetwork. Any bad row
// aborts the build with its index.
func BuildNetwork(records []ConnectionRecord) (*RailNetwork, error) {
	v := validator.New()
	net := NewRailNetwork()
	for i, rec := range records {
		if err := v.Struct(rec); err != nil {
			return nil, &ValidationError{Msg: fmt.Sprintf("row %d: %v", i, err)}
		}
		if err := net.ingest(rec); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}
	return net, nil
}

// LoadNetworkCSV reads and ingests a connection table in one step.
func LoadNetworkCSV(path string) (*RailNetwork, error) {
	records, err := ReadConnectionsCSV(path)
	if err != nil {
		return nil, err
	}
	return BuildNetwork(records)
}

func (n *RailNetwork) ingest(rec ConnectionRecord) error {
	depTime, depOff, err := ParseTimeWithOffset(rec.DepartureTime)
	if err != nil {
		return err
	}
	if depOff != 0 {
		// A departure never carries a day offset; treat it as a data issue.
		return &ValidationError{Msg: fmt.Sprintf("departure_time %q has unexpected day offset", rec.DepartureTime)}
	}
	arrTime, arrOff, err := ParseTimeWithOffset(rec.ArrivalTime)
	if err != nil {
		return err
	}
	days, err := ParseDays(rec.DaysOfOperation)
	if err != nil {
		return err
	}
	firstEUR, err := ParsePriceInt(rec.FirstClassFare)
	if err != nil {
		return err
	}
	secondEUR, err := ParsePriceInt(rec.SecondClassFare)
	if err != nil {
		return err
	}

	conn := &Connection{
		RouteID:        rec.RouteID,
		DepCity:        n.GetOrCreateCity(rec.DepartureCity),
		ArrCity:        n.GetOrCreateCity(rec.ArrivalCity),
		DepTime:        depTime,
		ArrTime:        arrTime,
		Days:           days,
		FirstClassEUR:  firstEUR,
		SecondClassEUR: secondEUR,
		Train:          n.GetOrCreateTrain(rec.TrainType),
		TripMinutes:    DurationMinutes(depTime, arrTime, arrOff),
	}
	return n.AddConnection(conn)
}
