package models

import "time"

// StoreSettings is the singleton configuration document (_id "store").
// Provider credentials live here rather than in the environment so admins can
// rotate them without a redeploy.
type StoreSettings struct {
	ID string `json:"-" bson:"_id"`

	StoreName string `json:"storeName" bson:"storeName"`

	RazorpayKeyID     string `json:"razorpayKeyId" bson:"razorpayKeyId"`
	RazorpayKeySecret string `json:"razorpayKeySecret" bson:"razorpayKeySecret"`

	ShiprocketEmail    string `json:"shiprocketEmail" bson:"shiprocketEmail"`
	ShiprocketPassword string `json:"shiprocketPassword" bson:"shiprocketPassword"`
	PickupPincode      string `json:"pickupPincode" bson:"pickupPincode"`
	PickupLocation     string `json:"pickupLocation" bson:"pickupLocation"`
	ChannelID          string `json:"channelId" bson:"channelId"`

	TaxEnabled bool    `json:"taxEnabled" bson:"taxEnabled"`
	TaxPercent float64 `json:"taxPercent" bson:"taxPercent"`

	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}
