package iftmin

import (
	"strconv"
	"strings"
)

// Разделители сообщения IFTMIN
const (
	segmentTerminator = "'"
	fieldSeparator    = "+"
	subSeparator      = ":"
)

// Семантический тип сегмента
type segmentKind int

const (
	kindIgnored segmentKind = iota
	kindEnvelope
	kindDocument
	kindMessageDate
	kindDeliveryDate
	kindCurrency
	kindShipper
	kindInvoicee
	kindConsignee
	kindNodeID
	kindTracking
	kindOrder
	kindPhone
	kindItem
	kindShipmentOpen
	kindWeight
	kindDimensions
	kindPackageCount
	kindShipmentCount
)

// Сегмент — последовательность полей, первое поле содержит тег
type segment []string

// Поле по номеру или пустая строка, если поля нет
func (s segment) field(i int) string {
	if i < len(s) {
		return s[i]
	}
	return ""
}

func (s segment) tag() string {
	return s.field(0)
}

// Квалификатор — первая компонента второго поля
func (s segment) qualifier() string {
	return subFirst(s.field(1))
}

type segmentKey struct {
	tag       string
	qualifier string
}

// Таблица соответствия (тег, квалификатор) -> тип сегмента.
// Пустой квалификатор означает, что тип определяется только тегом.
var segmentKinds = map[segmentKey]segmentKind{
	{"UNB", ""}:    kindEnvelope,
	{"BGM", ""}:    kindDocument,
	{"DTM", "9"}:   kindMessageDate,
	{"DTM", "17"}:  kindDeliveryDate,
	{"CUX", ""}:    kindCurrency,
	{"NAD", "SF"}:  kindShipper,
	{"NAD", "IV"}:  kindInvoicee,
	{"NAD", "CN"}:  kindConsignee,
	{"LOC", "198"}: kindNodeID,
	{"RFF", "CR"}:  kindTracking,
	{"RFF", "TB"}:  kindOrder,
	{"RFF", "TE"}:  kindPhone,
	{"RFF", "VP"}:  kindItem,
	{"GID", "1"}:   kindShipmentOpen,
	{"GID", "2"}:   kindShipmentOpen,
	{"MEA", "WX"}:  kindWeight,
	{"DIM", "2"}:   kindDimensions,
	{"CNT", "2"}:   kindPackageCount,
	{"CNT", "8"}:   kindShipmentCount,
}

// classify определяет тип сегмента по таблице.
// Сегменты, отсутствующие в таблице, игнорируются всеми проходами.
func classify(s segment) segmentKind {
	kind, ok := segmentKinds[segmentKey{s.tag(), s.qualifier()}]
	if !ok {
		kind, ok = segmentKinds[segmentKey{s.tag(), ""}]
	}
	if !ok {
		return kindIgnored
	}

	// Измерения дополнительно различаются по единицам
	switch kind {
	case kindWeight:
		if s.field(2) != "B" || subFirst(s.field(3)) != "KG" {
			return kindIgnored
		}
	case kindDimensions:
		if subFirst(s.field(2)) != "CMT" {
			return kindIgnored
		}
	}
	return kind
}

// tokenize разбивает сообщение на сегменты и поля.
// Пустые сегменты и сегменты из одних пробелов отбрасываются.
func tokenize(data string) []segment {
	var segments []segment
	for _, raw := range strings.Split(data, segmentTerminator) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		segments = append(segments, strings.Split(raw, fieldSeparator))
	}
	return segments
}

// Первая компонента составного поля
func subFirst(field string) string {
	return strings.Split(field, subSeparator)[0]
}

// Компонента после квалификатора или пустая строка
func subValue(field string) string {
	parts := strings.Split(field, subSeparator)
	if len(parts) > 1 {
		return parts[1]
	}
	return ""
}

// Значение ссылочного сегмента RFF: третье поле или компонента после квалификатора
func refValue(s segment) string {
	if v := s.field(2); v != "" {
		return v
	}
	return subValue(s.field(1))
}

// Parse разбирает сообщение IFTMIN с именами участников по умолчанию
func Parse(data string) Document {
	return ParseWith(data, Defaults{
		Shipper_name:  "WTAM",
		Invoicee_name: "AMAZON EU SARL",
	})
}

// ParseWith разбирает сообщение IFTMIN в структурированный документ.
// Отсутствующие поля заменяются пустыми значениями, разбор не возвращает ошибок.
func ParseWith(data string, def Defaults) Document {
	segments := tokenize(data)
	doc := Document{Shipments: []shipment{}}

	parseHeader(segments, &doc)
	parseParties(segments, &doc, def)
	parseShipments(segments, &doc)
	parseSummary(segments, &doc)

	return doc
}

// Заголовок сообщения: отправитель, получатель, номер документа, дата, валюта
func parseHeader(segments []segment, doc *Document) {
	for _, s := range segments {
		switch classify(s) {
		case kindEnvelope:
			doc.Header.Sender = subFirst(s.field(2))
			doc.Header.Receiver = subFirst(s.field(3))
		case kindDocument:
			doc.Header.Doc_number = s.field(2)
		case kindMessageDate:
			doc.Header.Message_date = formatDate(subValue(s.field(1)))
		case kindCurrency:
			doc.Header.Currency = s.field(2)
		}
	}
}

// Участники перевозки: грузоотправитель, плательщик, узел сети
func parseParties(segments []segment, doc *Document, def Defaults) {
	for _, s := range segments {
		switch classify(s) {
		case kindShipper:
			doc.Parties.Shipper = parseAddress(s, def.Shipper_name)
		case kindInvoicee:
			doc.Parties.Invoicee = parseAddress(s, def.Invoicee_name)
		case kindNodeID:
			doc.Parties.Node_id = s.field(2)
		}
	}
}

// parseShipments собирает сегменты в отправления.
// Сегмент GID закрывает предыдущее отправление и открывает новое,
// остальные сегменты заполняют текущее открытое отправление.
// До первого GID сегменты отправлений отбрасываются.
func parseShipments(segments []segment, doc *Document) {
	var current shipment
	items := []string{}
	open := false

	flush := func() {
		current.Items = items
		doc.Shipments = append(doc.Shipments, current)
		current = shipment{}
		items = []string{}
	}

	for _, s := range segments {
		kind := classify(s)
		if kind == kindShipmentOpen {
			if open {
				flush()
			}
			open = true
			current.Total_packages = subFirst(s.field(2))
			continue
		}
		if !open {
			continue
		}

		switch kind {
		case kindConsignee:
			current.Consignee = parseAddress(s, "")
		case kindTracking:
			current.Tracking_number = refValue(s)
		case kindOrder:
			current.Order_id = refValue(s)
		case kindPhone:
			current.Phone = refValue(s)
		case kindDeliveryDate:
			current.Delivery_date = formatDate(subValue(s.field(1)))
		case kindWeight:
			current.Weight = s.field(3)
		case kindDimensions:
			current.Dimensions = formatDimensions(s.field(2))
		case kindItem:
			items = append(items, refValue(s))
		}
	}

	// Последнее открытое отправление закрывается концом сообщения
	if open {
		flush()
	}
}

// Итоговые счётчики сообщения
func parseSummary(segments []segment, doc *Document) {
	for _, s := range segments {
		switch classify(s) {
		case kindPackageCount:
			doc.Summary.Total_packages = subValue(s.field(1))
		case kindShipmentCount:
			doc.Summary.Total_shipments = subValue(s.field(1))
		}
	}
}

// parseAddress собирает адрес из позиционных полей сегмента NAD.
// Короткий сегмент оставляет недостающие поля адреса пустыми.
func parseAddress(s segment, defaultName string) address {
	addr := address{}
	if len(s) >= 5 {
		addr.Name = s[4]
		if addr.Name == "" {
			addr.Name = defaultName
		}
	}
	if len(s) >= 6 {
		addr.Street = strings.ReplaceAll(s[5], subSeparator, " ")
	}
	if len(s) >= 7 {
		addr.City = s[6]
	}
	if len(s) >= 8 {
		addr.District = s[7]
	}
	if len(s) >= 9 {
		addr.Postal_code = s[8]
	}
	if len(s) >= 10 {
		addr.Country = s[9]
	}
	return addr
}

// formatDate переводит дату из YYYYMMDD в DD.MM.YYYY.
// Строка короче восьми символов или не начинающаяся с восьми цифр
// возвращается без изменений.
func formatDate(date string) string {
	if len(date) < 8 {
		return date
	}
	if _, err := strconv.Atoi(date[:8]); err != nil {
		return date
	}
	return date[6:8] + "." + date[4:6] + "." + date[:4]
}

// formatDimensions собирает строку габаритов из компонент после единицы измерения
func formatDimensions(field string) string {
	parts := strings.Split(field, subSeparator)
	if len(parts) < 2 {
		return ""
	}
	return strings.Join(parts[1:], "x") + " cm"
}
