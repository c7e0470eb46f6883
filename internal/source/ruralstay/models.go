package ruralstay

// APIResponse mirrors the public-data portal envelope for the rural-lodging
// registry. The nested containers may be absent past the last page.
type APIResponse struct {
	Response *Response `json:"response"`
}

type Response struct {
	Header Header `json:"header"`
	Body   *Body  `json:"body"`
}

type Header struct {
	ResultCode string `json:"resultCode"`
	ResultMsg  string `json:"resultMsg"`
}

type Body struct {
	Items      *Items `json:"items"`
	NumOfRows  int    `json:"numOfRows"`
	PageNo     int    `json:"pageNo"`
	TotalCount int    `json:"totalCount"`
}

type Items struct {
	Item []Item `json:"item"`
}

type Item struct {
	ManagementNo      string `json:"MNG_NO"`
	BusinessName      string `json:"BPLC_NM"`
	RoadAddress       string `json:"ROAD_NM_ADDR"`
	LotAddress        string `json:"LOTNO_ADDR"`
	Phone             string `json:"TELNO"`
	RoomCount         string `json:"GSRM_CNT"`
	StatusName        string `json:"SALS_STTS_NM"`
	CoordX            string `json:"CRD_INFO_X"`
	CoordY            string `json:"CRD_INFO_Y"`
	IndustryName      string `json:"INDUTY_NM"`
	BusinessStateName string `json:"BSN_STATE_NM"`
	DetailStatusName  string `json:"DTL_STTS_NM"`
}
