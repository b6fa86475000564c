package sql

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log"

	"github.com/lib/pq"
)

//go:embed init.sql
var initSQL string

//go:embed documents.sql
var documentsSQL string

//go:embed entities.sql
var entitiesSQL string

// sqlFile is one embedded SQL file with the functions it must create.
type sqlFile struct {
	name      string
	content   string
	functions []string
}

// DocumentsFunctions are created by documents.sql.
var DocumentsFunctions = []string{
	"init_documents",
	"insert_document",
	"select_document",
	"select_all_documents",
	"search_documents",
	"update_document",
	"delete_document",
}

// EntitiesFunctions are created by entities.sql.
var EntitiesFunctions = []string{
	"init_entities",
	"insert_entity",
	"insert_mention",
	"select_entity_by_name",
	"select_entities_by_label",
	"search_entities",
	"select_mentions_by_entity",
	"select_entity_labels",
	"delete_entity",
	"delete_entities_by_label",
	"merge_entities",
}

// Init creates the extensions needed by the search functions
func Init(db *sql.DB) error {
	_, err := db.Exec(initSQL)
	if err != nil {
		return fmt.Errorf("error executing schema SQL: %w", err)
	}

	log.Println("Database extensions initialized successfully")
	return nil
}

// LoadDocumentsSql loads document-related SQL functions
func LoadDocumentsSql(db *sql.DB, force bool) error {
	return loadSql(db, sqlFile{"documents", documentsSQL, DocumentsFunctions}, force)
}

// LoadEntitiesSql loads entity and mention SQL functions
func LoadEntitiesSql(db *sql.DB, force bool) error {
	return loadSql(db, sqlFile{"entities", entitiesSQL, EntitiesFunctions}, force)
}

// LoadAllSql loads all SQL functions, documents first
func LoadAllSql(db *sql.DB, force bool) error {
	for _, load := range []func(*sql.DB, bool) error{LoadDocumentsSql, LoadEntitiesSql} {
		if err := load(db, force); err != nil {
			return err
		}
	}
	return nil
}

// loadSql executes a SQL file unless all its functions already exist.
func loadSql(db *sql.DB, file sqlFile, force bool) error {
	if !force {
		exist, err := checkFunctions(db, file.functions)
		if err != nil {
			return fmt.Errorf("error checking existing %s functions: %w", file.name, err)
		}
		if exist {
			return nil
		}
	}

	_, err := db.Exec(file.content)
	if err != nil {
		return fmt.Errorf("error executing %s SQL: %w", file.name, err)
	}

	exist, err := checkFunctions(db, file.functions)
	if err != nil {
		return fmt.Errorf("error checking existing functions: %w", err)
	}
	if !exist {
		return fmt.Errorf("not all required %s SQL functions were created", file.name)
	}

	log.Printf("SQL %s functions loaded successfully", file.name)
	return nil
}

// checkFunctions reports whether every function exists. An empty list reports false.
func checkFunctions(db *sql.DB, sqlFunctions []string) (bool, error) {
	if len(sqlFunctions) == 0 {
		return false, nil
	}

	rows, err := db.Query(
		`SELECT DISTINCT proname::text FROM pg_proc WHERE proname = ANY($1);`,
		pq.Array(sqlFunctions),
	)
	if err != nil {
		return false, fmt.Errorf("error checking existence of functions: %w", err)
	}
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return false, fmt.Errorf("error scanning function name: %w", err)
		}
		found[name] = true
	}
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("error checking existence of functions: %w", err)
	}

	for _, f := range sqlFunctions {
		if !found[f] {
			log.Printf("Function %s does not exist", f)
			return false, nil
		}
	}
	return true, nil
}
