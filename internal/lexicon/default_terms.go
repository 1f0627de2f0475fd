package lexicon

// Default returns the built-in clinical lexicon used when no lexicon file
// is configured. The term lists cover the categories clinical records are
// filtered by: diagnoses, procedures, medications, vitals, lab values, and
// symptoms, including common abbreviations.
func Default() *Lexicon {
	return New(defaultCategories)
}

var defaultCategories = map[string][]string{
	"diagnoses": {
		"coronary artery disease", "cad", "myocardial infarction", "mi", "heart attack",
		"aortic stenosis", "hypertension", "diabetes", "diabetes mellitus", "dm",
		"pneumonia", "sepsis", "stroke", "cva", "cerebrovascular accident",
		"cancer", "carcinoma", "tumor", "metastasis", "oncology",
		"kidney disease", "renal failure", "ckd", "chronic kidney disease",
		"liver disease", "hepatitis", "cirrhosis", "copd", "asthma",
		"atrial fibrillation", "heart failure", "amyloidosis", "sleep apnea",
		"depression", "anxiety", "bipolar", "schizophrenia", "dementia",
	},
	"procedures": {
		"surgery", "operation", "procedure", "cath", "catheterization",
		"cabg", "coronary artery bypass", "stent", "angioplasty", "pci",
		"valve replacement", "avr", "mvr", "pacemaker", "defibrillator",
		"biopsy", "endoscopy", "colonoscopy", "mri", "ct scan",
		"ultrasound", "echo", "echocardiogram", "stress test",
		"ablation", "intubation", "endotracheal",
	},
	"medications": {
		"aspirin", "asa", "warfarin", "coumadin", "heparin", "plavix",
		"clopidogrel", "metoprolol", "atenolol", "lisinopril", "amlodipine",
		"simvastatin", "atorvastatin", "insulin", "metformin", "furosemide",
		"lasix", "digoxin", "nitroglycerin", "morphine", "fentanyl",
		"propofol", "midazolam", "vancomycin", "ceftriaxone", "levofloxacin",
		"rivaroxaban", "naproxen", "remifentanil",
	},
	"vitals": {
		"blood pressure", "bp", "heart rate", "hr", "temperature", "temp",
		"oxygen saturation", "o2 sat", "respiratory rate", "rr",
		"weight", "height", "bmi", "body mass index", "pulse",
	},
	"lab_values": {
		"hemoglobin", "hgb", "hematocrit", "hct", "white blood cell", "wbc",
		"platelet", "plt", "creatinine", "bun", "glucose", "sodium", "na",
		"potassium", "chloride", "troponin", "bnp", "ck-mb",
	},
	"symptoms": {
		"chest pain", "angina", "shortness of breath", "dyspnea", "sob",
		"fatigue", "weakness", "nausea", "vomiting", "diarrhea", "constipation",
		"headache", "dizziness", "syncope", "confusion", "altered mental status",
		"fever", "chills", "sweating", "palpitations", "edema", "swelling",
	},
}
