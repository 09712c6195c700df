package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/Evgeniy7456/IFTMIN/iftmin"
	"github.com/Evgeniy7456/IFTMIN/postgresql"
	"github.com/jackc/pgx"
	natsd "github.com/nats-io/nats-server/v2/server"
	stand "github.com/nats-io/nats-streaming-server/server"
	"github.com/nats-io/stan.go"
	. "github.com/smartystreets/goconvey/convey"
)

type Setup struct {
	NatsServer *stand.StanServer
	DB         *pgx.Conn
	SC         stan.Conn
	Sub        stan.Subscription
	WG         *sync.WaitGroup
	CacheDB    *Cache
	PublishSC  stan.Conn
}

func TestService(t *testing.T) {
	setup, err := setup()
	if err != nil {
		fmt.Println(err)
		return
	}

	t.Cleanup(func() {
		_, err := setup.DB.Exec("drop table test")
		if err != nil {
			fmt.Println("Table deletion error", err)
		}
		setup.DB.Close()
		setup.SC.Close()
		setup.PublishSC.Close()
		setup.NatsServer.Shutdown()
	})

	// Тест подключений к БД, NATS streaming server, подписке на канал NATS streaming server
	Convey("Service test", t, func() {
		Convey("Database connection test", func() {
			So(setup.DB, ShouldNotHaveSameTypeAs, nil)
		})
		Convey("NATS streaming server subscription test", func() {
			So(setup.SC, ShouldNotHaveSameTypeAs, nil)
		})
		Convey("Channel subscription test in NATS streaming server", func() {
			So(setup.Sub, ShouldNotHaveSameTypeAs, nil)
		})
	})

	// Тест обработки полученных сообщений
	Convey("Message handling test", t, func() {
		// Корректное сообщение IFTMIN
		Convey("Valid IFTMIN message test", func() {
			// Чтение сообщения из файла
			data, err := os.ReadFile("../source/message1.edi")
			if err != nil {
				fmt.Println(err)
				return
			}

			document := iftmin.Parse(string(data))
			// Тест записи документа в БД
			Convey("Test of writing data to the database", func() {
				err := setup.PublishSC.Publish("iftmin-data", data)
				if err != nil {
					fmt.Println(err)
					return
				}
				time.Sleep(100 * time.Millisecond)
				db_data, err := postgresql.GetDataToDB(setup.DB, setup.CacheDB.tableName)
				if err != nil {
					fmt.Println(err)
					return
				}
				var json_db map[string]iftmin.Document
				err = json.Unmarshal(db_data, &json_db)
				if err != nil {
					fmt.Println(err)
					return
				}
				So(json_db["1027214650005003"], ShouldResemble, document)
			})
			// Тест записи документа в map
			Convey("Cache write test", func() {
				So(setup.CacheDB.data["1027214650005003"], ShouldResemble, document)
			})
		})
		// Сообщение без номера документа
		Convey("Not an IFTMIN message test", func() {
			// Тест отказа от записи в БД
			Convey("Test of writing data to the database", func() {
				data := []byte("TSR+1+5+4'CNT+2:6'")
				err := setup.PublishSC.Publish("iftmin-data", data)
				if err != nil {
					fmt.Println(err)
					return
				}
				time.Sleep(100 * time.Millisecond)
				db_data, err := postgresql.GetDataToDB(setup.DB, setup.CacheDB.tableName)
				if err != nil {
					fmt.Println(err)
					return
				}
				var json_db map[string]iftmin.Document
				err = json.Unmarshal(db_data, &json_db)
				if err != nil {
					fmt.Println(err)
					return
				}
				So(len(json_db), ShouldEqual, 1)
			})
			// Тест отказа от записи в map
			Convey("Cache write test", func() {
				So(len(setup.CacheDB.data), ShouldEqual, 1)
			})
		})
	})
}

func setup() (*Setup, error) {
	// Запуск встроенного NATS streaming server
	opts := stand.GetDefaultOptions()
	opts.ID = "test-cluster"
	nOpts := natsd.Options{Host: "127.0.0.1", Port: 4222}
	natsServer, err := stand.RunServerWithOpts(opts, &nOpts)
	if err != nil {
		return nil, fmt.Errorf("error starting NATS streaming server: %w", err)
	}

	cacheDB := Cache{
		data:      make(map[string]iftmin.Document),
		tableName: "test",
	}

	// Подключение к БД, NATS streaming server и каналу передачи данных
	db := ConnectDB()
	sc := ConnectNSS("test-cluster", "test")
	sub, wg := SubscribeNSS(sc, db, &cacheDB)

	publishSC, err := stan.Connect("test-cluster", "test2")
	if err != nil {
		return nil, fmt.Errorf("unable to connection to NATS streaming server: %w", err)
	}

	setup := Setup{
		NatsServer: natsServer,
		DB:         db,
		SC:         sc,
		Sub:        sub,
		WG:         wg,
		CacheDB:    &cacheDB,
		PublishSC:  publishSC,
	}

	// Создание тестовой таблицы
	_, err = db.Exec("create table if not exists test (doc_number varchar not null primary key, json_data jsonb not null)")
	if err != nil {
		fmt.Println("Error creating database")
		panic(err)
	}

	return &setup, nil
}
