package models

// PlayerState is the shape of one room member as it travels over the wire
// and as it is embedded in a saved multiplayer game. ID is the transport
// connection id and is overwritten whenever the same username reconnects;
// Username is the durable identity used for rejoin and resume matching.
type PlayerState struct {
	ID        string `bson:"id" json:"id"`
	Username  string `bson:"username" json:"username"`
	Score     int    `bson:"score" json:"score"`
	Color     string `bson:"color" json:"color"`
	IsCreator bool   `bson:"is_creator" json:"isCreator"`
	Coins     int    `bson:"coins" json:"coins"`
}
