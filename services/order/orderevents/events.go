package orderevents

const (
	TopicName       = "order"
	orderPlacedName = TopicName + ".placed"
)

type OrderPlaced struct {
	OrderUID    string
	Email       string
	AmountCents int64
	LineCount   int
}

func (e OrderPlaced) GetEventTypeName() string {
	return orderPlacedName
}

func (e OrderPlaced) GetAggregateName() string {
	return e.OrderUID
}
