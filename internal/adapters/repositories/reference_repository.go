package repositories

import (
	"context"
	"database/sql"
	"drone-dispatch-service/internal/domain"
	"drone-dispatch-service/internal/platform/db"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SQL-backed implementation of the ReferenceRepository port.
// Works against SQLite and Postgres through database/sql.
type SQLReferenceRepository struct {
	DB     *sql.DB
	Driver string
}

func NewSQLReferenceRepository(conn *sql.DB, driver string) *SQLReferenceRepository {
	return &SQLReferenceRepository{DB: conn, Driver: driver}
}

func (s *SQLReferenceRepository) q(query string) string {
	return db.Rebind(s.Driver, query)
}

// Save replaces all stored reference data with ref in one transaction.
func (s *SQLReferenceRepository) Save(ctx context.Context, ref *domain.ReferenceData) error {
	if s.DB == nil {
		return errors.New("save reference data: DB is nil")
	}
	if ref == nil {
		return errors.New("save reference data: reference data is nil")
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save reference data: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"drone_availability", "drones", "service_points", "restricted_areas"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("save reference data: clear %s: %w", table, err)
		}
	}

	if err := s.insertServicePoints(ctx, tx, ref.ServicePoints); err != nil {
		return err
	}
	if err := s.insertDrones(ctx, tx, ref.Drones); err != nil {
		return err
	}
	if err := s.insertRestrictedAreas(ctx, tx, ref.RestrictedAreas); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save reference data: commit tx: %w", err)
	}
	return nil
}

func (s *SQLReferenceRepository) insertServicePoints(ctx context.Context, tx *sql.Tx, sps []domain.ServicePoint) error {
	stmt, err := tx.PrepareContext(ctx, s.q(`
	INSERT INTO service_points (id, name, lng, lat)
	VALUES (?, ?, ?, ?);
	`))
	if err != nil {
		return fmt.Errorf("save reference data: prepare service point insert: %w", err)
	}
	defer stmt.Close()

	for _, sp := range sps {
		if _, err := stmt.ExecContext(ctx, sp.ID, sp.Name, sp.Location.Lng, sp.Location.Lat); err != nil {
			return fmt.Errorf("save reference data: insert service point id=%d: %w", sp.ID, err)
		}
	}
	return nil
}

func (s *SQLReferenceRepository) insertDrones(ctx context.Context, tx *sql.Tx, drones []domain.Drone) error {
	droneStmt, err := tx.PrepareContext(ctx, s.q(`
	INSERT INTO drones (
		id, ordinal, name, service_point_id,
		cooling, heating, capacity, max_moves,
		cost_per_move, cost_initial, cost_final
	)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`))
	if err != nil {
		return fmt.Errorf("save reference data: prepare drone insert: %w", err)
	}
	defer droneStmt.Close()

	windowStmt, err := tx.PrepareContext(ctx, s.q(`
	INSERT INTO drone_availability (drone_id, ordinal, service_point_id, day_of_week, from_seconds, until_seconds)
	VALUES (?, ?, ?, ?, ?, ?);
	`))
	if err != nil {
		return fmt.Errorf("save reference data: prepare availability insert: %w", err)
	}
	defer windowStmt.Close()

	for i, d := range drones {
		home := sql.NullInt64{Int64: int64(d.ServicePointID), Valid: d.ServicePointID != 0}
		c := d.Capability
		if _, err := droneStmt.ExecContext(ctx,
			d.ID, i, d.Name, home,
			c.Cooling, c.Heating, c.Capacity, c.MaxMoves,
			c.CostPerMove, c.CostInitial, c.CostFinal,
		); err != nil {
			return fmt.Errorf("save reference data: insert drone id=%s: %w", d.ID, err)
		}

		for j, w := range d.Availability {
			sp := sql.NullInt64{Int64: int64(w.ServicePointID), Valid: w.ServicePointID != 0}
			if _, err := windowStmt.ExecContext(ctx, d.ID, j, sp, int(w.DayOfWeek), w.From.Seconds(), w.Until.Seconds()); err != nil {
				return fmt.Errorf("save reference data: insert availability drone id=%s: %w", d.ID, err)
			}
		}
	}
	return nil
}

func (s *SQLReferenceRepository) insertRestrictedAreas(ctx context.Context, tx *sql.Tx, areas []domain.RestrictedArea) error {
	stmt, err := tx.PrepareContext(ctx, s.q(`
	INSERT INTO restricted_areas (id, name, lower_limit, upper_limit, vertices)
	VALUES (?, ?, ?, ?, ?);
	`))
	if err != nil {
		return fmt.Errorf("save reference data: prepare restricted area insert: %w", err)
	}
	defer stmt.Close()

	for _, a := range areas {
		coords := make([][]float64, len(a.Vertices))
		for i, v := range a.Vertices {
			coords[i] = v.CoordsToList()
		}
		vertices, err := json.Marshal(coords)
		if err != nil {
			return fmt.Errorf("save reference data: encode vertices of area id=%d: %w", a.ID, err)
		}

		var lower, upper sql.NullFloat64
		if a.Limits != nil {
			lower = sql.NullFloat64{Float64: a.Limits.Lower, Valid: true}
			upper = sql.NullFloat64{Float64: a.Limits.Upper, Valid: true}
		}

		if _, err := stmt.ExecContext(ctx, a.ID, a.Name, lower, upper, string(vertices)); err != nil {
			return fmt.Errorf("save reference data: insert restricted area id=%d: %w", a.ID, err)
		}
	}
	return nil
}

// Load reads every stored reference record.
func (s *SQLReferenceRepository) Load(ctx context.Context) (*domain.ReferenceData, error) {
	if s.DB == nil {
		return nil, errors.New("load reference data: DB is nil")
	}

	sps, err := s.listServicePoints(ctx)
	if err != nil {
		return nil, err
	}
	drones, err := s.listDrones(ctx)
	if err != nil {
		return nil, err
	}
	areas, err := s.listRestrictedAreas(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.ReferenceData{
		Drones:          drones,
		ServicePoints:   sps,
		RestrictedAreas: areas,
		LoadedAt:        time.Now(),
	}, nil
}

func (s *SQLReferenceRepository) listServicePoints(ctx context.Context) ([]domain.ServicePoint, error) {
	query := `
	SELECT id, name, lng, lat
	FROM service_points
	ORDER BY id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load reference data: query service_points table: %w", err)
	}
	defer rows.Close()

	sps := make([]domain.ServicePoint, 0, 8)
	for rows.Next() {
		var sp domain.ServicePoint
		if err := rows.Scan(&sp.ID, &sp.Name, &sp.Location.Lng, &sp.Location.Lat); err != nil {
			return nil, fmt.Errorf("load reference data: scan service point: %w", err)
		}
		sps = append(sps, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load reference data: service point iteration: %w", err)
	}
	return sps, nil
}

func (s *SQLReferenceRepository) listDrones(ctx context.Context) ([]domain.Drone, error) {
	query := `
	SELECT
		id, name, service_point_id,
		cooling, heating, capacity, max_moves,
		cost_per_move, cost_initial, cost_final
	FROM drones
	ORDER BY ordinal;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load reference data: query drones table: %w", err)
	}
	defer rows.Close()

	drones := make([]domain.Drone, 0, 16)
	index := make(map[string]int)
	for rows.Next() {
		var (
			d    domain.Drone
			home sql.NullInt64
		)
		c := &d.Capability
		if err := rows.Scan(
			&d.ID, &d.Name, &home,
			&c.Cooling, &c.Heating, &c.Capacity, &c.MaxMoves,
			&c.CostPerMove, &c.CostInitial, &c.CostFinal,
		); err != nil {
			return nil, fmt.Errorf("load reference data: scan drone: %w", err)
		}
		if home.Valid {
			d.ServicePointID = int(home.Int64)
		}
		index[d.ID] = len(drones)
		drones = append(drones, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load reference data: drone iteration: %w", err)
	}

	windows, err := s.DB.QueryContext(ctx, `
	SELECT drone_id, service_point_id, day_of_week, from_seconds, until_seconds
	FROM drone_availability
	ORDER BY drone_id, ordinal;
	`)
	if err != nil {
		return nil, fmt.Errorf("load reference data: query drone_availability table: %w", err)
	}
	defer windows.Close()

	for windows.Next() {
		var (
			droneID     string
			sp          sql.NullInt64
			day         int
			from, until int
		)
		if err := windows.Scan(&droneID, &sp, &day, &from, &until); err != nil {
			return nil, fmt.Errorf("load reference data: scan availability: %w", err)
		}
		i, ok := index[droneID]
		if !ok {
			return nil, fmt.Errorf("load reference data: availability for unknown drone %s", droneID)
		}
		drones[i].Availability = append(drones[i].Availability, domain.AvailabilityWindow{
			ServicePointID: int(sp.Int64),
			DayOfWeek:      time.Weekday(day),
			From:           domain.TimeOfDayFromSeconds(from),
			Until:          domain.TimeOfDayFromSeconds(until),
		})
	}
	if err := windows.Err(); err != nil {
		return nil, fmt.Errorf("load reference data: availability iteration: %w", err)
	}

	return drones, nil
}

func (s *SQLReferenceRepository) listRestrictedAreas(ctx context.Context) ([]domain.RestrictedArea, error) {
	query := `
	SELECT id, name, lower_limit, upper_limit, vertices
	FROM restricted_areas
	ORDER BY id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load reference data: query restricted_areas table: %w", err)
	}
	defer rows.Close()

	areas := make([]domain.RestrictedArea, 0, 8)
	for rows.Next() {
		var (
			a            domain.RestrictedArea
			lower, upper sql.NullFloat64
			raw          string
		)
		if err := rows.Scan(&a.ID, &a.Name, &lower, &upper, &raw); err != nil {
			return nil, fmt.Errorf("load reference data: scan restricted area: %w", err)
		}

		var coords [][]float64
		if err := json.Unmarshal([]byte(raw), &coords); err != nil {
			return nil, fmt.Errorf("load reference data: decode vertices of area id=%d: %w", a.ID, err)
		}
		a.Vertices = make(domain.Polygon, 0, len(coords))
		for _, c := range coords {
			if len(c) != 2 {
				return nil, fmt.Errorf("load reference data: area id=%d: vertex must be [lng, lat]", a.ID)
			}
			a.Vertices = append(a.Vertices, domain.Position{Lng: c[0], Lat: c[1]})
		}

		if lower.Valid || upper.Valid {
			a.Limits = &domain.Limits{Lower: lower.Float64, Upper: upper.Float64}
		}
		areas = append(areas, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load reference data: restricted area iteration: %w", err)
	}
	return areas, nil
}
