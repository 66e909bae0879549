package kernel

type AnalysisID string

func NewAnalysisID(id string) AnalysisID { return AnalysisID(id) }
func (a AnalysisID) String() string      { return string(a) }
func (a AnalysisID) IsEmpty() bool       { return string(a) == "" }

type RoadmapID string

func NewRoadmapID(id string) RoadmapID { return RoadmapID(id) }
func (r RoadmapID) String() string     { return string(r) }
func (r RoadmapID) IsEmpty() bool      { return string(r) == "" }

type JobID string

func NewJobID(id string) JobID { return JobID(id) }
func (j JobID) String() string { return string(j) }
func (j JobID) IsEmpty() bool  { return string(j) == "" }
