package g2b

// Region is a participation-restriction region code (prtcptLmtRgnCd).
type Region struct {
	Code string
	Name string
}

// NationwideCode matches announcements open to bidders from any region.
const NationwideCode = "00"

// RegionCodes lists the codes accepted by the region filter.
var RegionCodes = []Region{
	{"11", "서울특별시"},
	{"26", "부산광역시"},
	{"27", "대구광역시"},
	{"28", "인천광역시"},
	{"29", "광주광역시"},
	{"30", "대전광역시"},
	{"31", "울산광역시"},
	{"36", "세종특별자치시"},
	{"41", "경기도"},
	{"42", "강원도"},
	{"43", "충청북도"},
	{"44", "충청남도"},
	{"45", "전라북도"},
	{"46", "전라남도"},
	{"47", "경상북도"},
	{"48", "경상남도"},
	{"50", "제주도"},
	{"51", "강원특별자치도"},
	{"52", "전북특별자치도"},
	{"99", "기타"},
	{NationwideCode, "전국(지역제한 없음)"},
}
