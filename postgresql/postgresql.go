package postgresql

import (
	"fmt"
	"log"

	"github.com/jackc/pgx"
)

// NewClient подключается к локальной базе данных
func NewClient() (*pgx.Conn, error) {
	config := pgx.ConnConfig{
		Host:     "localhost",
		Port:     5432,
		Database: "postgres",
		User:     "postgres",
		Password: "postgres",
	}

	db, err := pgx.Connect(config)
	if err != nil {
		return nil, fmt.Errorf("unable to connection to database: %w", err)
	}
	return db, nil
}

// InsertIntoDB записывает разобранный документ в таблицу по номеру документа.
// Повторное сообщение с тем же номером заменяет сохранённый документ.
func InsertIntoDB(db *pgx.Conn, tableName string, data []byte, docNumber string) {
	query := fmt.Sprintf("insert into %s (doc_number, json_data) values ($1, $2) on conflict (doc_number) do update set json_data = $2", tableName)
	_, err := db.Exec(query, docNumber, data)
	if err != nil {
		log.Println("Error writing data to database:", err)
	}
}

// GetDataToDB возвращает все документы таблицы одним json объектом
// вида {"номер документа": документ}
func GetDataToDB(db *pgx.Conn, tableName string) ([]byte, error) {
	query := fmt.Sprintf("select coalesce(json_object_agg(doc_number, json_data), '{}'::json) from %s", tableName)

	var data []byte
	err := db.QueryRow(query).Scan(&data)
	if err != nil {
		return nil, fmt.Errorf("error retrieving data from database: %w", err)
	}
	return data, nil
}
