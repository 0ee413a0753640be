package http

import jsoniter "github.com/json-iterator/go"

// json is a drop-in stdlib replacement; handlers use it for all request
// decoding and response encoding.
var json = jsoniter.ConfigCompatibleWithStandardLibrary
