package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/Evgeniy7456/IFTMIN/iftmin"
)

func main() {
	// Контекст ожидающий отмены от системы
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client := &http.Client{}
	ch := make(chan int)
	go response(client, ch)

	for {
		select {
		// Закрытие клиента после сигнала от операционной системы
		case <-ctx.Done():
			fmt.Println("Client is closing")
			return
		// Повторный вызов функции для ввода номера документа
		case <-ch:
			go response(client, ch)
		}
	}
}

func response(client *http.Client, ch chan int) {
	defer func() {
		ch <- 1
	}()

	// Запрос номера документа у пользователя
	fmt.Print("Enter document number: ")
	var doc_number string
	_, err := fmt.Scan(&doc_number)
	if err != nil {
		if err == io.EOF {
			fmt.Println()
		} else {
			fmt.Println(err)
		}
	}

	// Отправка номера документа POST запросом на сервер в формате json
	json_data := map[string]string{
		"doc_number": doc_number,
	}
	data, _ := json.Marshal(json_data)
	r := bytes.NewReader(data)
	resp, err := client.Post("http://localhost:8080/getData", "application/json", r)
	if err != nil {
		fmt.Println("Server is not available")
		return
	}
	// Вывод полученных данных
	var resp_json []byte
	json.NewDecoder(resp.Body).Decode(&resp_json)
	var document iftmin.Document
	err = json.Unmarshal(resp_json, &document)
	if err != nil {
		fmt.Println("Invalid data format")
		return
	}
	if document.Header.Doc_number == "" {
		fmt.Println("This number does not exist")
		fmt.Println()
		return
	}

	// Заголовок сообщения
	fmt.Println("Document number:", document.Header.Doc_number)
	fmt.Println("Sender:", orUnknown(document.Header.Sender))
	fmt.Println("Receiver:", orUnknown(document.Header.Receiver))
	fmt.Println("Message date:", orUnknown(document.Header.Message_date))
	fmt.Println("Currency:", orUnknown(document.Header.Currency))

	// Краткая статистика сообщения
	fmt.Println("Total shipments:", orDefault(document.Summary.Total_shipments, "0"))
	fmt.Println("Total packages:", orDefault(document.Summary.Total_packages, "0"))
	fmt.Println("Node ID:", orUnknown(document.Parties.Node_id))

	// Участники перевозки
	fmt.Println("Shipper:")
	fmt.Println("    Name:", orUnknown(document.Parties.Shipper.Name))
	fmt.Println("    Street:", orUnknown(document.Parties.Shipper.Street))
	fmt.Println("    City:", orUnknown(document.Parties.Shipper.City))
	fmt.Println("    District:", orUnknown(document.Parties.Shipper.District))
	fmt.Println("    Postal code:", orUnknown(document.Parties.Shipper.Postal_code))
	fmt.Println("    Country:", orUnknown(document.Parties.Shipper.Country))
	fmt.Println("Invoicee:")
	fmt.Println("    Name:", orUnknown(document.Parties.Invoicee.Name))
	fmt.Println("    Street:", orUnknown(document.Parties.Invoicee.Street))
	fmt.Println("    City:", orUnknown(document.Parties.Invoicee.City))
	fmt.Println("    District:", orUnknown(document.Parties.Invoicee.District))
	fmt.Println("    Postal code:", orUnknown(document.Parties.Invoicee.Postal_code))
	fmt.Println("    Country:", orUnknown(document.Parties.Invoicee.Country))

	// Отправления
	fmt.Printf("Shipments count %d:\n", len(document.Shipments))
	for i := 0; i < len(document.Shipments); i++ {
		shipment := document.Shipments[i]
		fmt.Printf("    Shipment №%d:\n", i+1)
		fmt.Println("        Packages:", orDefault(shipment.Total_packages, "0"))
		fmt.Println("        Tracking number:", orUnknown(shipment.Tracking_number))
		fmt.Println("        Order id:", orUnknown(shipment.Order_id))
		fmt.Println("        Phone:", orUnknown(shipment.Phone))
		fmt.Println("        Delivery date:", orUnknown(shipment.Delivery_date))
		fmt.Println("        Weight:", orUnknown(shipment.Weight))
		fmt.Println("        Dimensions:", orUnknown(shipment.Dimensions))
		fmt.Println("        Consignee:")
		fmt.Println("            Name:", orUnknown(shipment.Consignee.Name))
		fmt.Println("            Street:", orUnknown(shipment.Consignee.Street))
		fmt.Println("            City:", orUnknown(shipment.Consignee.City))
		fmt.Println("            District:", orUnknown(shipment.Consignee.District))
		fmt.Println("            Postal code:", orUnknown(shipment.Consignee.Postal_code))
		fmt.Println("            Country:", orUnknown(shipment.Consignee.Country))
		fmt.Printf("        Items count %d:\n", len(shipment.Items))
		for j := 0; j < len(shipment.Items); j++ {
			fmt.Printf("            Item №%d: %s\n", j+1, shipment.Items[j])
		}
	}
	fmt.Println()
}

// Подстановка значения для отображения вместо пустого поля
func orDefault(value string, placeholder string) string {
	if value == "" {
		return placeholder
	}
	return value
}

func orUnknown(value string) string {
	return orDefault(value, "Unknown")
}
