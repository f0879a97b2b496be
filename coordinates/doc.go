package coordinates

// This module defines common methods and operations for rescaling the Eno fantasy world's GeoJSON vector data on to the envelope a web-mercator map viewer expects. Common operations include: Calibrating envelopes, transforming documents, clamping latitudes and restoring documents from backups.
