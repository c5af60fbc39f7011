package model

// RawItem is an item as it comes off the remote bridge, before identifier
// normalization. The remote store keeps its native id under "_id" while the
// application historically wrote its own id under "id"; a record may carry
// either or both. Raw records must not travel past the ingestion boundary.
type RawItem struct {
	RemoteID    string  `json:"_id,omitempty" bson:"_id,omitempty"`
	AppID       string  `json:"id,omitempty" bson:"id,omitempty"`
	Name        string  `json:"name" bson:"name"`
	Description string  `json:"description" bson:"description"`
	Price       float64 `json:"price" bson:"price"`
}

// Item is a normalized catalog entry. ID is the canonical identifier used
// for every mirror lookup after ingestion.
type Item struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// Fields carries the user-editable part of an item, as submitted to the
// bridge for create and update calls.
type Fields struct {
	Name        string  `json:"name" bson:"name"`
	Description string  `json:"description" bson:"description"`
	Price       float64 `json:"price" bson:"price"`
}

// Fields returns the editable subset of the item.
func (it Item) Fields() Fields {
	return Fields{Name: it.Name, Description: it.Description, Price: it.Price}
}

// Raw re-widens a normalized item to the wire shape. Both identifier fields
// are set to the canonical id so either scheme on the remote side matches.
func (it Item) Raw() RawItem {
	return RawItem{
		RemoteID:    it.ID,
		AppID:       it.ID,
		Name:        it.Name,
		Description: it.Description,
		Price:       it.Price,
	}
}
