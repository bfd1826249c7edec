// pkg/constants/constants.go
package constants

//============== TABLES ==============

// Имена таблиц хранилища. Используются и в запросах, и в фильтрах канала изменений.
const (
	TableOrders     = "orders"
	TableActivities = "activities"
	TableCustomers  = "customers"
	TableOperators  = "operators"
)

//============== PLACEHOLDERS ==============

// Строки-заглушки для соединений, которые не удалось разрешить.
const (
	OrderLoadingPlaceholder  = "Caricamento..."
	OrderNotFoundPlaceholder = "Ordine non trovato"
	DefaultActivityTitle     = "Attività"
)

//============== CACHE KEYS ==============

// Префиксы для ключей в Redis/кеше.
const (
	// Отпечаток последней отправленной повестки оператора.
	// Формат: agenda_fp:<instanceID>:<operatorID> -> fingerprint
	CacheKeyAgendaFingerprint = "agenda_fp:%s:%d"
)
