package dto

import "errors"

var errNotifyWithoutPublish = errors.New("notify requires publish")
