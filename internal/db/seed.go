package db

import (
	"database/sql"
	"fmt"
	"time"
)

// SeedFixtures populates the reference tables (campuses, trades, programs,
// OEPs, batches). Safe to run repeatedly; existing rows are kept.
func SeedFixtures(database *sql.DB) error {
	campuses := []struct{ id, name, district string }{
		{"CAMP-0001", "GTTI Lahore", "Lahore"},
		{"CAMP-0002", "GCT Rawalpindi", "Rawalpindi"},
		{"CAMP-0003", "GTTI Multan", "Multan"},
	}
	for _, c := range campuses {
		if _, err := database.Exec(
			"INSERT OR IGNORE INTO campuses (id, name, district) VALUES (?, ?, ?)",
			c.id, c.name, c.district,
		); err != nil {
			return fmt.Errorf("seed campuses: %w", err)
		}
	}

	trades := []struct {
		id, code, name string
		weeks          int
	}{
		{"TRADE-0001", "ELEC", "Electrician", 12},
		{"TRADE-0002", "PLMB", "Plumber", 10},
		{"TRADE-0003", "WELD", "Welder", 12},
		{"TRADE-0004", "HVAC", "HVAC Technician", 16},
	}
	for _, t := range trades {
		if _, err := database.Exec(
			"INSERT OR IGNORE INTO trades (id, code, name, duration_weeks) VALUES (?, ?, ?, ?)",
			t.id, t.code, t.name, t.weeks,
		); err != nil {
			return fmt.Errorf("seed trades: %w", err)
		}
	}

	programs := []struct{ id, name, country string }{
		{"PROG-0001", "Skills for Gulf Employment", "Saudi Arabia"},
		{"PROG-0002", "Construction Workforce Pathway", "United Arab Emirates"},
	}
	for _, p := range programs {
		if _, err := database.Exec(
			"INSERT OR IGNORE INTO programs (id, name, country) VALUES (?, ?, ?)",
			p.id, p.name, p.country,
		); err != nil {
			return fmt.Errorf("seed programs: %w", err)
		}
	}

	oeps := []struct{ id, name, license string }{
		{"OEP-0001", "Al-Falah Overseas Employment", "OEP-LHR-1021"},
		{"OEP-0002", "Crescent Manpower Services", "OEP-RWP-0877"},
	}
	for _, o := range oeps {
		if _, err := database.Exec(
			"INSERT OR IGNORE INTO oeps (id, name, license_number) VALUES (?, ?, ?)",
			o.id, o.name, o.license,
		); err != nil {
			return fmt.Errorf("seed oeps: %w", err)
		}
	}

	start := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)
	batches := []struct {
		id, name, campus, trade, program string
		weeks, capacity                  int
	}{
		{"BATCH-0001", "ELEC-LHR-2026-01", "CAMP-0001", "TRADE-0001", "PROG-0001", 12, 30},
		{"BATCH-0002", "WELD-RWP-2026-01", "CAMP-0002", "TRADE-0003", "PROG-0001", 12, 25},
		{"BATCH-0003", "HVAC-MUL-2026-01", "CAMP-0003", "TRADE-0004", "PROG-0002", 16, 20},
	}
	for _, b := range batches {
		if _, err := database.Exec(
			"INSERT OR IGNORE INTO batches (id, name, campus_id, trade_id, program_id, start_date, end_date, capacity) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			b.id, b.name, b.campus, b.trade, b.program, start, start.AddDate(0, 0, 7*b.weeks), b.capacity,
		); err != nil {
			return fmt.Errorf("seed batches: %w", err)
		}
	}

	return nil
}
