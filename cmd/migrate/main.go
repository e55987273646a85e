package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if len(os.Args) < 2 {
		fmt.Println("Usage: go run main.go [drop|up|seed]")
		os.Exit(1)
	}

	command := os.Args[1]

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close(ctx)

	switch command {
	case "drop":
		if err := dropTables(ctx, conn); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		fmt.Println("✅ All tables dropped successfully")

	case "up":
		if err := createTables(ctx, conn); err != nil {
			log.Fatalf("Failed to create tables: %v", err)
		}
		fmt.Println("✅ All tables created successfully")

	case "seed":
		if err := seedData(ctx, conn); err != nil {
			log.Fatalf("Failed to seed data: %v", err)
		}
		fmt.Println("✅ Data seeded successfully")

	default:
		fmt.Printf("Unknown command: %s\n", command)
		fmt.Println("Usage: go run main.go [drop|up|seed]")
		os.Exit(1)
	}
}

func dropTables(ctx context.Context, conn *pgx.Conn) error {
	queries := []string{
		`DROP TABLE IF EXISTS audit_logs CASCADE`,
		`DROP TABLE IF EXISTS abstentions CASCADE`,
		`DROP TABLE IF EXISTS votes CASCADE`,
		`DROP TABLE IF EXISTS ballots CASCADE`,
		`DROP TABLE IF EXISTS candidates CASCADE`,
		`DROP TABLE IF EXISTS positions CASCADE`,
		`DROP TABLE IF EXISTS elections CASCADE`,
		`DROP TABLE IF EXISTS users CASCADE`,
	}

	for _, query := range queries {
		if _, err := conn.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
		fmt.Printf("  Dropped: %s\n", query)
	}

	return nil
}

func createTables(ctx context.Context, conn *pgx.Conn) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(255) PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			name VARCHAR(255) NOT NULL,
			user_type VARCHAR(20) NOT NULL CHECK (user_type IN ('STUDENT', 'FACULTY', 'NON_TEACHING')),
			role VARCHAR(20) NOT NULL DEFAULT 'VOTER' CHECK (role IN ('VOTER', 'ADMIN')),
			is_active BOOLEAN DEFAULT true,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS elections (
			id SERIAL PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			campaign_start TIMESTAMP,
			campaign_end TIMESTAMP,
			start_date TIMESTAMP NOT NULL,
			end_date TIMESTAMP NOT NULL,
			voter_restriction VARCHAR(30) NOT NULL DEFAULT 'ALL' CHECK (voter_restriction IN ('ALL', 'STUDENTS', 'FACULTY', 'NON_TEACHING', 'STUDENTS_FACULTY')),
			status VARCHAR(20) NOT NULL DEFAULT 'UPCOMING' CHECK (status IN ('UPCOMING', 'ONGOING', 'COMPLETED')),
			is_official BOOLEAN DEFAULT false,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW(),
			CHECK (start_date < end_date)
		)`,

		`CREATE TABLE IF NOT EXISTS positions (
			id SERIAL PRIMARY KEY,
			election_id INTEGER NOT NULL REFERENCES elections(id) ON DELETE CASCADE,
			title VARCHAR(255) NOT NULL,
			winner_count INTEGER NOT NULL DEFAULT 1 CHECK (winner_count >= 1),
			created_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS candidates (
			id SERIAL PRIMARY KEY,
			position_id INTEGER NOT NULL REFERENCES positions(id) ON DELETE CASCADE,
			election_id INTEGER NOT NULL REFERENCES elections(id) ON DELETE CASCADE,
			user_id VARCHAR(255) NOT NULL REFERENCES users(id),
			image_url TEXT,
			platform TEXT,
			status VARCHAR(20) NOT NULL DEFAULT 'PENDING' CHECK (status IN ('PENDING', 'APPROVED', 'REJECTED')),
			is_active BOOLEAN DEFAULT true,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW(),
			UNIQUE(position_id, user_id)
		)`,

		// One ballot per voter per election, enforced at the storage layer
		`CREATE TABLE IF NOT EXISTS ballots (
			id UUID PRIMARY KEY,
			voter_id VARCHAR(255) NOT NULL REFERENCES users(id),
			election_id INTEGER NOT NULL REFERENCES elections(id) ON DELETE CASCADE,
			created_at TIMESTAMP DEFAULT NOW(),
			UNIQUE(voter_id, election_id)
		)`,

		`CREATE TABLE IF NOT EXISTS votes (
			id SERIAL PRIMARY KEY,
			ballot_id UUID NOT NULL REFERENCES ballots(id) ON DELETE CASCADE,
			voter_id VARCHAR(255) NOT NULL REFERENCES users(id),
			candidate_id INTEGER NOT NULL REFERENCES candidates(id),
			position_id INTEGER NOT NULL REFERENCES positions(id),
			election_id INTEGER NOT NULL REFERENCES elections(id) ON DELETE CASCADE,
			created_at TIMESTAMP DEFAULT NOW(),
			UNIQUE(ballot_id, candidate_id)
		)`,

		`CREATE TABLE IF NOT EXISTS abstentions (
			id SERIAL PRIMARY KEY,
			ballot_id UUID NOT NULL REFERENCES ballots(id) ON DELETE CASCADE,
			voter_id VARCHAR(255) NOT NULL REFERENCES users(id),
			position_id INTEGER NOT NULL REFERENCES positions(id),
			election_id INTEGER NOT NULL REFERENCES elections(id) ON DELETE CASCADE,
			created_at TIMESTAMP DEFAULT NOW(),
			UNIQUE(ballot_id, position_id)
		)`,

		`CREATE TABLE IF NOT EXISTS audit_logs (
			id SERIAL PRIMARY KEY,
			user_id VARCHAR(255) NOT NULL,
			action VARCHAR(50) NOT NULL,
			details TEXT,
			election_id INTEGER REFERENCES elections(id) ON DELETE CASCADE,
			created_at TIMESTAMP DEFAULT NOW()
		)`,

		// Indexes
		`CREATE INDEX IF NOT EXISTS idx_positions_election_id ON positions(election_id)`,
		`CREATE INDEX IF NOT EXISTS idx_candidates_position_id ON candidates(position_id)`,
		`CREATE INDEX IF NOT EXISTS idx_candidates_election_id ON candidates(election_id)`,
		`CREATE INDEX IF NOT EXISTS idx_ballots_election_id ON ballots(election_id)`,
		`CREATE INDEX IF NOT EXISTS idx_votes_election_candidate ON votes(election_id, candidate_id)`,
		`CREATE INDEX IF NOT EXISTS idx_abstentions_election_position ON abstentions(election_id, position_id)`,
		`CREATE INDEX IF NOT EXISTS idx_audit_logs_election_id ON audit_logs(election_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_elections_status ON elections(status)`,
	}

	for _, query := range queries {
		if _, err := conn.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w\nQuery: %s", err, query)
		}
		fmt.Printf("  Created: %s\n", getTableName(query))
	}

	return nil
}

func seedData(ctx context.Context, conn *pgx.Conn) error {
	queries := []string{
		`INSERT INTO users (id, email, name, user_type, role) VALUES
			('admin-001', 'commissioner@university.edu', 'Election Commissioner', 'FACULTY', 'ADMIN'),
			('stu-001', 'alice@university.edu', 'Alice Chen', 'STUDENT', 'VOTER'),
			('stu-002', 'bob@university.edu', 'Bob Martinez', 'STUDENT', 'VOTER'),
			('stu-003', 'carol@university.edu', 'Carol Okafor', 'STUDENT', 'VOTER'),
			('fac-001', 'dana@university.edu', 'Dr. Dana Whitfield', 'FACULTY', 'VOTER'),
			('staff-001', 'eli@university.edu', 'Eli Navarro', 'NON_TEACHING', 'VOTER')
		ON CONFLICT (id) DO NOTHING`,

		`INSERT INTO elections (title, description, status, voter_restriction, start_date, end_date) VALUES
			('Student Council 2026', 'Annual student council election', 'ONGOING', 'STUDENTS', NOW() - INTERVAL '1 day', NOW() + INTERVAL '6 days'),
			('Faculty Senate 2026', 'Faculty senate representatives', 'UPCOMING', 'FACULTY', NOW() + INTERVAL '14 days', NOW() + INTERVAL '21 days')
		ON CONFLICT DO NOTHING`,

		`INSERT INTO positions (election_id, title, winner_count) VALUES
			(1, 'President', 1),
			(1, 'Vice President', 1),
			(1, 'Senator', 3)
		ON CONFLICT DO NOTHING`,

		`INSERT INTO candidates (position_id, election_id, user_id, platform, status) VALUES
			(1, 1, 'stu-001', 'Transparency and better dining options', 'APPROVED'),
			(1, 1, 'stu-002', 'Extended library hours', 'APPROVED'),
			(2, 1, 'stu-003', 'More student events', 'APPROVED')
		ON CONFLICT (position_id, user_id) DO NOTHING`,
	}

	for _, query := range queries {
		if _, err := conn.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to seed data: %w", err)
		}
	}

	fmt.Println("  Seeded users, elections, positions, and candidates")

	return nil
}

func getTableName(query string) string {
	if len(query) > 50 {
		return query[:50] + "..."
	}
	return query
}
