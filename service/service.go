package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"

	"github.com/Evgeniy7456/IFTMIN/iftmin"
	"github.com/Evgeniy7456/IFTMIN/postgresql"
	"github.com/jackc/pgx"
	"github.com/nats-io/stan.go"
)

type Cache struct {
	data      map[string]iftmin.Document
	tableName string
}

func (c *Cache) init(db *pgx.Conn) {
	// Получение данных из БД
	res, err := postgresql.GetDataToDB(db, c.tableName)
	if err != nil {
		log.Fatal("Error retrieving data from database:", err)
	}

	// Сохранение данных в map
	json.Unmarshal(res, &c.data)
}

var cacheDB = Cache{
	tableName: "iftmin_data",
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Подключение к NATS streaming server
	sc := ConnectNSS("test-cluster", "test")
	// Подключение к базе данных
	db := ConnectDB()
	// Инициализация кэша
	cacheDB.init(db)
	// Подписка на канал в NATS streaming server
	sub, wg := SubscribeNSS(sc, db, &cacheDB)

	// Запуск http-сервера
	http.HandleFunc("/getData", getData)
	go http.ListenAndServe("localhost:8080", nil)
	log.Println("Http-server start listening on port 8080")

	// Ожидание от системы сигнала на закрытие сервиса
	<-ctx.Done()

	// Завершение работы сервиса
	shutdown(sc, db, sub, wg)
}

func ConnectNSS(stanClasterID string, clientID string, options ...stan.Option) stan.Conn {
	sc, err := stan.Connect(stanClasterID, clientID)
	if err != nil {
		log.Fatal("Unable to connection to NATS streaming server!")
	}
	log.Print("Successful to connection to the NATS streaming server!")
	return sc
}

func ConnectDB() *pgx.Conn {
	db, err := postgresql.NewClient()
	if err != nil {
		log.Fatalf("Unable to connection to database: %v\n", err)
	}
	log.Println("Successful connection to the database!")
	return db
}

func SubscribeNSS(sc stan.Conn, db *pgx.Conn, cache *Cache) (stan.Subscription, *sync.WaitGroup) {
	// Mutex для избежания блокировки при одновременном подключении к БД и записи в map
	mu := sync.Mutex{}
	// WaitGroup для ожидания записи данных в БД при закрытии сервиса
	wg := sync.WaitGroup{}

	sub, err := sc.Subscribe("iftmin-data", func(m *stan.Msg) {
		wg.Add(1)
		go func() {
			log.Print("Received a message")
			defer wg.Done()
			// Разбор полученного сообщения IFTMIN
			document, err := valid(m.Data)
			if err != nil {
				log.Println("Error message validation:", err)
				return
			}

			json_document, err := json.Marshal(document)
			if err != nil {
				log.Println("Error json encoding:", err)
				return
			}

			mu.Lock()
			cache.data[document.Header.Doc_number] = document
			postgresql.InsertIntoDB(db, cache.tableName, json_document, document.Header.Doc_number)
			mu.Unlock()
		}()
	}, stan.DeliverAllAvailable())
	if err != nil {
		log.Fatal("Unable to subscribe to NATS streaming server!")
	}
	log.Println("Successfully subscribed to a NATS streaming server channel!")
	return sub, &wg
}

// Разбор сообщения и проверка номера документа. Сам разбор не возвращает
// ошибок, поэтому сообщение без номера документа считается не IFTMIN.
func valid(data []byte) (document iftmin.Document, err error) {
	document = iftmin.Parse(string(data))
	if len(document.Header.Doc_number) == 0 {
		return document, fmt.Errorf("the received message is not an IFTMIN message")
	}
	return document, nil
}

// Получение номера документа от клиента и отправка json
func getData(w http.ResponseWriter, r *http.Request) {
	var doc_number map[string]string
	json.NewDecoder(r.Body).Decode(&doc_number)
	json_data := cacheDB.data[doc_number["doc_number"]]
	data_byte, _ := json.Marshal(json_data)
	json.NewEncoder(w).Encode(data_byte)
}

func shutdown(sc stan.Conn, db *pgx.Conn, sub stan.Subscription, wg *sync.WaitGroup) {
	// Отписка от канала NATS streaming server
	sub.Unsubscribe()
	log.Println("Unsubscribing from a NATS streaming service channel")

	// Отключение от NATS streaming server
	sc.Close()
	log.Println("Closing the connection to the NATS streaming server")

	// Ожидание завершения записи полученных сообщений в БД
	log.Println("Waiting for data recording to complete")
	wg.Wait()

	// Отключение от БД
	db.Close()
	log.Println("Closing a database connection")
}
