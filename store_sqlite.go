package eurailnet

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store is the relational persistence collaborator. The core trusts it to
// report its own failures; a failed save never corrupts in-memory state
// because every write runs inside a transaction and the registries are
// only mutated on load.
type Store struct {
	db *sql.DB
}

func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

const schemaSQL = `
CREATE TABLE IF NOT EXISTS City (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS Train (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS Connection (
	id INTEGER PRIMARY KEY,
	depCityId INTEGER NOT NULL,
	arrCityId INTEGER NOT NULL,
	trainId INTEGER NOT NULL,
	depTime TEXT NOT NULL,
	arrTime TEXT NOT NULL,
	routeId TEXT NOT NULL,
	tripMinutes INTEGER NOT NULL,
	firstClassEur INTEGER NOT NULL,
	secondClassEur INTEGER NOT NULL,
	FOREIGN KEY(depCityId) REFERENCES City(id) ON DELETE RESTRICT,
	FOREIGN KEY(arrCityId) REFERENCES City(id) ON DELETE RESTRICT,
	FOREIGN KEY(trainId)   REFERENCES Train(id) ON DELETE RESTRICT
);

CREATE TABLE IF NOT EXISTS ConnectionDay (
	connectionId INTEGER NOT NULL,
	weekday INTEGER NOT NULL CHECK(weekday BETWEEN 0 AND 6),
	PRIMARY KEY(connectionId, weekday),
	FOREIGN KEY(connectionId) REFERENCES Connection(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS Traveller (
	id TEXT PRIMARY KEY,
	firstName TEXT NOT NULL,
	lastName TEXT NOT NULL,
	age INTEGER
);

CREATE TABLE IF NOT EXISTS Trip (
	id TEXT PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS TripConnection (
	tripId TEXT NOT NULL,
	seq INTEGER NOT NULL,
	connectionId INTEGER NOT NULL,
	PRIMARY KEY(tripId, seq),
	FOREIGN KEY(tripId) REFERENCES Trip(id) ON DELETE CASCADE,
	FOREIGN KEY(connectionId) REFERENCES Connection(id) ON DELETE RESTRICT
);

CREATE TABLE IF NOT EXISTS Reservation (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	tripId TEXT NOT NULL,
	travellerId TEXT NOT NULL,
	seatClass TEXT CHECK(seatClass IN ('first','second')) DEFAULT 'second',
	ticketId INTEGER UNIQUE,
	FOREIGN KEY(tripId) REFERENCES Trip(id) ON DELETE CASCADE,
	FOREIGN KEY(travellerId) REFERENCES Traveller(id) ON DELETE RESTRICT
);
`

func (s *Store) Migrate() error {
	_, err := s.db.Exec(schemaSQL)
	return err
}

func ensureNamed(tx *sql.Tx, table, name string) (int64, error) {
	var id int64
	err := tx.QueryRow(fmt.Sprintf("SELECT id FROM %s WHERE name = ?", table), name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}
	res, err := tx.Exec(fmt.Sprintf("INSERT INTO %s(name) VALUES(?)", table), name)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const connTupleWhere = `
	WHERE routeId = ? AND depCityId = ? AND arrCityId = ?
	  AND depTime = ? AND arrTime = ? AND trainId = ?`

func findConnectionRow(tx *sql.Tx, c *Connection, depID, arrID, trainID int64) (int64, bool, error) {
	var id int64
	err := tx.QueryRow("SELECT id FROM Connection"+connTupleWhere,
		c.RouteID, depID, arrID, c.DepTime.String(), c.ArrTime.String(), trainID).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// SaveNetwork upserts the static network data. Connections are matched on
// the full route/cities/times/train tuple; fares and duration are refreshed
// on an existing row, and the weekday rows are rewritten.
func (s *Store) SaveNetwork(net *RailNetwork) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, c := range net.Cities() {
		if _, err := ensureNamed(tx, "City", c.Name); err != nil {
			return err
		}
	}
	for _, t := range net.Trains() {
		if _, err := ensureNamed(tx, "Train", t.Name); err != nil {
			return err
		}
	}
	for _, c := range net.Connections() {
		depID, err := ensureNamed(tx, "City", c.DepCity.Name)
		if err != nil {
			return err
		}
		arrID, err := ensureNamed(tx, "City", c.ArrCity.Name)
		if err != nil {
			return err
		}
		trainID, err := ensureNamed(tx, "Train", c.Train.Name)
		if err != nil {
			return err
		}
		connID, found, err := findConnectionRow(tx, c, depID, arrID, trainID)
		if err != nil {
			return err
		}
		if found {
			if _, err := tx.Exec(
				"UPDATE Connection SET tripMinutes = ?, firstClassEur = ?, secondClassEur = ? WHERE id = ?",
				c.TripMinutes, c.FirstClassEUR, c.SecondClassEUR, connID); err != nil {
				return err
			}
		} else {
			res, err := tx.Exec(`
				INSERT INTO Connection(
					depCityId, arrCityId, trainId, depTime, arrTime, routeId,
					tripMinutes, firstClassEur, secondClassEur
				) VALUES (?,?,?,?,?,?,?,?,?)`,
				depID, arrID, trainID, c.DepTime.String(), c.ArrTime.String(), c.RouteID,
				c.TripMinutes, c.FirstClassEUR, c.SecondClassEUR)
			if err != nil {
				return err
			}
			connID, err = res.LastInsertId()
			if err != nil {
				return err
			}
		}
		if _, err := tx.Exec("DELETE FROM ConnectionDay WHERE connectionId = ?", connID); err != nil {
			return err
		}
		for _, d := range c.Days.Days() {
			if _, err := tx.Exec("INSERT INTO ConnectionDay(connectionId, weekday) VALUES (?,?)", connID, d); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// SaveTrip persists one booked trip with its reservations. Segment and
// reservation rows are rewritten so repeated saves stay duplicate-free;
// each segment must already exist from SaveNetwork.
func (s *Store) SaveTrip(trip *Trip) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("INSERT OR IGNORE INTO Trip(id) VALUES(?)", trip.ID); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM TripConnection WHERE tripId = ?", trip.ID); err != nil {
		return err
	}
	for seq, c := range trip.Connections {
		depID, err := ensureNamed(tx, "City", c.DepCity.Name)
		if err != nil {
			return err
		}
		arrID, err := ensureNamed(tx, "City", c.ArrCity.Name)
		if err != nil {
			return err
		}
		trainID, err := ensureNamed(tx, "Train", c.Train.Name)
		if err != nil {
			return err
		}
		connID, found, err := findConnectionRow(tx, c, depID, arrID, trainID)
		if err != nil {
			return err
		}
		if !found {
			return &NotFoundError{Msg: fmt.Sprintf("connection %s not in database; save the network first", c.RouteID)}
		}
		if _, err := tx.Exec("INSERT INTO TripConnection(tripId, seq, connectionId) VALUES (?,?,?)",
			trip.ID, seq, connID); err != nil {
			return err
		}
	}
	if _, err := tx.Exec("DELETE FROM Reservation WHERE tripId = ?", trip.ID); err != nil {
		return err
	}
	for _, res := range trip.Reservations {
		t := res.Traveller
		if _, err := tx.Exec(
			"INSERT OR IGNORE INTO Traveller(id, firstName, lastName, age) VALUES (?,?,?,?)",
			t.ID, t.FirstName, t.LastName, t.Age); err != nil {
			return err
		}
		if _, err := tx.Exec(
			"INSERT INTO Reservation(tripId, travellerId, seatClass, ticketId) VALUES (?,?,?,?)",
			trip.ID, t.ID, res.SeatClass, res.Ticket.ID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LoadTrips rebuilds trips, travellers, reservations, and tickets from the
// database and reinserts them into the booking system without re-running
// booking validation. Segments are re-linked to live network connections by
// full-tuple match; a segment with no live counterpart is skipped, and a
// trip id already present in the booking system is skipped whole so a
// repeated load leaves traveller state untouched.
func (s *Store) LoadTrips(b *BookingSystem, net *RailNetwork) error {
	rows, err := s.db.Query("SELECT id, firstName, lastName, age FROM Traveller")
	if err != nil {
		return err
	}
	travellers := map[string]*Traveller{}
	for rows.Next() {
		var td TravellerData
		if err := rows.Scan(&td.ID, &td.FirstName, &td.LastName, &td.Age); err != nil {
			rows.Close()
			return err
		}
		travellers[td.ID] = b.GetOrCreateTraveller(td)
	}
	if err := rows.Close(); err != nil {
		return err
	}

	tripRows, err := s.db.Query("SELECT id FROM Trip")
	if err != nil {
		return err
	}
	var tripIDs []string
	for tripRows.Next() {
		var id string
		if err := tripRows.Scan(&id); err != nil {
			tripRows.Close()
			return err
		}
		tripIDs = append(tripIDs, id)
	}
	if err := tripRows.Close(); err != nil {
		return err
	}

	for _, tripID := range tripIDs {
		if _, ok := b.TripByID(tripID); ok {
			continue
		}
		trip := &Trip{ID: tripID}
		segRows, err := s.db.Query(`
			SELECT c.routeId, dc.name, ac.name, c.depTime, c.arrTime, t.name
			FROM TripConnection tc
			JOIN Connection c ON c.id = tc.connectionId
			JOIN City dc ON dc.id = c.depCityId
			JOIN City ac ON ac.id = c.arrCityId
			JOIN Train t ON t.id = c.trainId
			WHERE tc.tripId = ?
			ORDER BY tc.seq ASC`, tripID)
		if err != nil {
			return err
		}
		for segRows.Next() {
			var ref SegmentRef
			if err := segRows.Scan(&ref.RouteID, &ref.DepartureCity, &ref.ArrivalCity,
				&ref.DepartureTime, &ref.ArrivalTime, &ref.TrainType); err != nil {
				segRows.Close()
				return err
			}
			if c, err := ref.Resolve(net); err == nil {
				trip.Connections = append(trip.Connections, c)
			}
		}
		if err := segRows.Close(); err != nil {
			return err
		}

		resRows, err := s.db.Query(
			"SELECT travellerId, seatClass, ticketId FROM Reservation WHERE tripId = ?", tripID)
		if err != nil {
			return err
		}
		for resRows.Next() {
			var travID, seat string
			var ticketID int
			if err := resRows.Scan(&travID, &seat, &ticketID); err != nil {
				resRows.Close()
				return err
			}
			trav, ok := travellers[travID]
			if !ok {
				continue
			}
			ticket := &Ticket{ID: ticketID}
			res := &Reservation{Traveller: trav, Trip: trip, Ticket: ticket, SeatClass: seat}
			ticket.Reservation = res
			trip.Reservations = append(trip.Reservations, res)
			trav.Reservations = append(trav.Reservations, res)
		}
		if err := resRows.Close(); err != nil {
			return err
		}
		b.RestoreTrip(trip)
	}
	return nil
}
