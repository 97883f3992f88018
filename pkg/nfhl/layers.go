package nfhl

// Service identifies one of the FEMA flood hazard map services.
type Service string

const (
	// ServiceNFHL is the effective National Flood Hazard Layer.
	ServiceNFHL Service = "NFHL"
	// ServicePrelimCSLF is the preliminary Changes Since Last FIRM service.
	ServicePrelimCSLF Service = "Prelim_CSLF"
	// ServiceDraftCSLF is the draft Changes Since Last FIRM service.
	ServiceDraftCSLF Service = "Draft_CSLF"
	// ServicePrelimNFHL is the preliminary NFHL service.
	ServicePrelimNFHL Service = "Prelim_NFHL"
	// ServicePendingNFHL is the pending NFHL service.
	ServicePendingNFHL Service = "Pending_NFHL"
	// ServiceDraftNFHL is the draft FIRM database service.
	ServiceDraftNFHL Service = "Draft_NFHL"
)

var serviceURLs = map[Service]string{
	ServiceNFHL:        "https://hazards.fema.gov/arcgis/rest/services/public/NFHL/MapServer",
	ServicePrelimCSLF:  "https://hazards.fema.gov/gis/nfhl/rest/services/CSLF/Prelim_CSLF/MapServer",
	ServiceDraftCSLF:   "https://hazards.fema.gov/gis/nfhl/rest/services/CSLF/Draft_CSLF/MapServer",
	ServicePrelimNFHL:  "https://hazards.fema.gov/gis/nfhl/rest/services/PrelimPending/Prelim_NFHL/MapServer",
	ServicePendingNFHL: "https://hazards.fema.gov/gis/nfhl/rest/services/PrelimPending/Pending_NFHL/MapServer",
	ServiceDraftNFHL:   "https://hazards.fema.gov/gis/nfhl/rest/services/AFHI/Draft_FIRM_DB/MapServer",
}

// Layer ids per service, keyed by the lower-case layer names FEMA
// publishes in each service's legend.
var serviceLayers = map[Service]map[string]int{
	ServiceNFHL: {
		"nfhl availability":                0,
		"lomrs":                            1,
		"lomas":                            2,
		"firm panels":                      3,
		"base index":                       4,
		"plss":                             5,
		"topographic low confidence areas": 6,
		"river mile markers":               7,
		"datum conversion points":          8,
		"coastal gages":                    9,
		"gages":                            10,
		"nodes":                            11,
		"high water marks":                 12,
		"station start points":             13,
		"cross-sections":                   14,
		"coastal transects":                15,
		"base flood elevations":            16,
		"profile baselines":                17,
		"transect baselines":               18,
		"limit of moderate wave action":    19,
		"water lines":                      20,
		"seclusion boundaries":             21,
		"political jurisdictions":          22,
		"levees":                           23,
		"general structures":               24,
		"primary frontal dunes":            25,
		"hydrologic reaches":               26,
		"flood hazard boundaries":          27,
		"flood hazard zones":               28,
		"water areas":                      29,
		"alluvial fans":                    30,
		"subbasins":                        31,
	},
	ServicePrelimCSLF: {
		"preliminary":                          0,
		"coastal high hazard area change":      1,
		"floodway change":                      2,
		"special flood hazard area change":     3,
		"non-special flood hazard area change": 4,
	},
	ServiceDraftCSLF: {
		"draft":                                0,
		"coastal high hazard area change":      1,
		"floodway change":                      2,
		"special flood hazard area change":     3,
		"non-special flood hazard area change": 4,
	},
	ServicePrelimNFHL: {
		"preliminary data availability":                0,
		"preliminary firm panel index":                 1,
		"preliminary plss":                             2,
		"preliminary topographic low confidence areas": 3,
		"preliminary river mile markers":               4,
		"preliminary datum conversion points":          5,
		"preliminary coastal gages":                    6,
		"preliminary gages":                            7,
		"preliminary nodes":                            8,
		"preliminary high water marks":                 9,
		"preliminary station start points":             10,
		"preliminary cross-sections":                   11,
		"preliminary coastal transects":                12,
		"preliminary base flood elevations":            13,
		"preliminary profile baselines":                14,
		"preliminary transect baselines":               15,
		"preliminary limit of moderate wave action":    16,
		"preliminary water lines":                      17,
		"preliminary political jurisdictions":          18,
		"preliminary levees":                           19,
		"preliminary general structures":               20,
		"preliminary primary frontal dunes":            21,
		"preliminary hydrologic reaches":               22,
		"preliminary flood hazard boundaries":          23,
		"preliminary flood hazard zones":               24,
		"preliminary submittal information":            25,
		"preliminary alluvial fans":                    26,
		"preliminary subbasins":                        27,
		"preliminary water areas":                      28,
	},
	ServicePendingNFHL: {
		"pending submittal information":            0,
		"pending water areas":                      1,
		"pending firm panel index":                 2,
		"pending data availability":                3,
		"pending firm panels":                      4,
		"pending political jurisdictions":          5,
		"pending profile baselines":                6,
		"pending water lines":                      7,
		"pending cross-sections":                   8,
		"pending base flood elevations":            9,
		"pending levees":                           10,
		"pending seclusion boundaries":             11,
		"pending coastal transects":                12,
		"pending transect baselines":               13,
		"pending general structures":               14,
		"pending river mile markers":               15,
		"pending plss":                             16,
		"pending limit of moderate wave action":    17,
		"pending flood hazard boundaries":          18,
		"pending flood hazard zones":               19,
		"pending primary frontal dunes":            20,
		"pending topographic low confidence areas": 21,
		"pending datum conversion points":          22,
		"pending coastal gages":                    23,
		"pending gages":                            24,
		"pending nodes":                            25,
		"pending high water marks":                 26,
		"pending station start points":             27,
		"pending hydrologic reaches":               28,
		"pending alluvial fans":                    29,
		"pending subbasins":                        30,
	},
	ServiceDraftNFHL: {
		"draft data availability":             0,
		"draft firm panels":                   1,
		"draft political jurisdictions":       2,
		"draft profile baselines":             3,
		"draft water lines":                   4,
		"draft cross-sections":                5,
		"draft base flood elevations":         6,
		"draft levees":                        7,
		"draft submittal info":                8,
		"draft coastal transects":             9,
		"draft transect baselines":            10,
		"draft limit of moderate wave action": 11,
		"draft flood hazard boundaries":       12,
		"draft flood hazard zones":            13,
	},
}
