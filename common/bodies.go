package common

type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

type MessageBody struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
