package entity

import "testing"

func TestPayResponseRedirectUrl(t *testing.T) {
	response := &PayResponse{
		Success: true,
		Data: &PayData{
			InstrumentResponse: &InstrumentResponse{
				Type:         "PAY_PAGE",
				RedirectInfo: &RedirectInfo{Url: "https://pay.example.com/x", Method: "GET"},
			},
		},
	}
	url, err := response.RedirectUrl()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://pay.example.com/x" {
		t.Fatalf("url = %s", url)
	}
}

func TestPayResponseRedirectUrlShapeMismatch(t *testing.T) {
	cases := []*PayResponse{
		{Success: true},
		{Success: true, Data: &PayData{}},
		{Success: true, Data: &PayData{InstrumentResponse: &InstrumentResponse{}}},
		{Success: true, Data: &PayData{InstrumentResponse: &InstrumentResponse{RedirectInfo: &RedirectInfo{}}}},
	}
	for i, response := range cases {
		if _, err := response.RedirectUrl(); err == nil {
			t.Errorf("case %d: expected error for malformed response shape", i)
		}
	}
}
